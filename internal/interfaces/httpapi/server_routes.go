package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler, swaggerEnabled bool) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
	if !swaggerEnabled {
		return
	}

	mux.HandleFunc("GET /openapi.yaml", handler.OpenAPI)
	mux.HandleFunc("GET /docs", handler.SwaggerUI)
	mux.HandleFunc("GET /docs/", handler.SwaggerUI)
}

func registerAuthRoutes(mux *http.ServeMux, handler *Handler, resolver SessionResolver) {
	mux.HandleFunc("POST /v1/auth/register", handler.Register)
	mux.HandleFunc("POST /v1/auth/login", handler.Login)
	mux.Handle("POST /v1/auth/logout", RequireAuth(resolver, http.HandlerFunc(handler.Logout)))
	mux.HandleFunc("GET /v1/auth/confirm", handler.ConfirmEmail)
	mux.HandleFunc("POST /v1/auth/confirm/resend", handler.ResendConfirmation)
	mux.HandleFunc("POST /v1/auth/password/forgot", handler.ForgotPassword)
	mux.HandleFunc("GET /v1/auth/password/reset", handler.CheckResetToken)
	mux.HandleFunc("POST /v1/auth/password/reset", handler.ResetPassword)
}

func registerPoolRoutes(mux *http.ServeMux, handler *Handler, resolver SessionResolver) {
	mux.Handle("GET /v1/matches", OptionalAuth(resolver, http.HandlerFunc(handler.ListMatches)))
	mux.Handle("PUT /v1/matches/{matchID}/prediction", RequireAuth(resolver, http.HandlerFunc(handler.SubmitPrediction)))
	mux.HandleFunc("GET /v1/ranking", handler.Ranking)
	mux.Handle("GET /v1/me", RequireAuth(resolver, http.HandlerFunc(handler.Me)))
	mux.Handle("PATCH /v1/users/{userID}", RequireAuth(resolver, http.HandlerFunc(handler.EditUserName)))
}

// registerAdminRoutes only authenticates; the use cases check admin and owner rights.
func registerAdminRoutes(mux *http.ServeMux, handler *Handler, resolver SessionResolver) {
	mux.Handle("POST /v1/admin/matches", RequireAuth(resolver, http.HandlerFunc(handler.CreateMatch)))
	mux.Handle("PUT /v1/admin/matches/{matchID}", RequireAuth(resolver, http.HandlerFunc(handler.UpdateMatch)))
	mux.Handle("DELETE /v1/admin/matches/{matchID}", RequireAuth(resolver, http.HandlerFunc(handler.DeleteMatch)))
	mux.Handle("PUT /v1/admin/matches/{matchID}/outcome", RequireAuth(resolver, http.HandlerFunc(handler.RecordOutcome)))
	mux.Handle("POST /v1/admin/recompute", RequireAuth(resolver, http.HandlerFunc(handler.Recompute)))
	mux.Handle("GET /v1/admin/users", RequireAuth(resolver, http.HandlerFunc(handler.ListUsers)))
	mux.Handle("POST /v1/admin/users/{userID}/toggle-admin", RequireAuth(resolver, http.HandlerFunc(handler.ToggleAdmin)))
	mux.Handle("DELETE /v1/admin/users/{userID}", RequireAuth(resolver, http.HandlerFunc(handler.DeleteUser)))
	mux.Handle("POST /v1/admin/reset", RequireAuth(resolver, http.HandlerFunc(handler.ResetChampionship)))
}
