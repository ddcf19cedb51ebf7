package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"livactiv/backend/internal/config"
	"livactiv/backend/internal/domain/booking"
	"livactiv/backend/internal/domain/chat"
	"livactiv/backend/internal/domain/event"
	"livactiv/backend/internal/domain/notifications"
	"livactiv/backend/internal/domain/payments"
	"livactiv/backend/internal/domain/profile"
	"livactiv/backend/internal/handlers"
	"livactiv/backend/internal/middleware"
	"livactiv/backend/internal/utils"

	"firebase.google.com/go/v4/auth"
	"github.com/go-chi/chi/v5"
)

type RouterDeps struct {
	Cfg              config.Config
	AuthClient       *auth.Client
	EventSvc         *event.Service
	EventRepo        *event.Repo
	BookingSvc       *booking.Service
	ProfileSvc       *profile.Service
	ChatSvc          *chat.Service
	NotificationsSvc *notifications.Service
	PaymentsSvc      *payments.Service
	Uploads          *handlers.Uploads
}

func NewRouter(d RouterDeps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.CORS(d.Cfg.AllowedOrigins))
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		WriteJSON(w, 200, map[string]any{"ok": true, "ts": time.Now().UTC().Format(time.RFC3339)})
	})

	// ===== Stripe webhook (no auth; verified by signature) =====
	if d.PaymentsSvc != nil {
		r.Post("/v1/stripe/webhook", d.PaymentsSvc.HandleWebhook)
	}

	// Protected routes
	r.Group(func(pr chi.Router) {
		pr.Use(middleware.WithAuth(d.AuthClient))

		pr.Get("/v1/me", func(w http.ResponseWriter, r *http.Request) {
			au, _ := middleware.GetAuthUser(r.Context())

			if err := d.ProfileSvc.UpsertMinimal(r.Context(), au.UID, au.Email); err != nil {
				Fail(w, 500, "failed to ensure user profile")
				return
			}

			step, err := d.ProfileSvc.OnboardingStep(r.Context(), au.UID)
			if err != nil {
				Fail(w, 500, "failed to resolve onboarding step")
				return
			}

			WriteJSON(w, 200, map[string]any{
				"uid":            au.UID,
				"email":          au.Email,
				"onboardingStep": step,
			})
		})

		// ===== Events =====
		pr.Get("/v1/events", func(w http.ResponseWriter, r *http.Request) {
			f, limit, err := parseEventFilters(r, d.Cfg)
			if err != nil {
				Fail(w, 400, err.Error())
				return
			}

			out, err := d.EventSvc.List(r.Context(), f, limit)
			if err != nil {
				status, msg := mapEventError(err)
				Fail(w, status, msg)
				return
			}
			WriteJSON(w, 200, out)
		})

		pr.Post("/v1/events", func(w http.ResponseWriter, r *http.Request) {
			au, _ := middleware.GetAuthUser(r.Context())

			var in event.CreateEventInput
			if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
				Fail(w, 400, "invalid json")
				return
			}

			out, err := d.EventSvc.Create(r.Context(), au.UID, au.DisplayName(), in)
			if err != nil {
				status, msg := mapEventError(err)
				Fail(w, status, msg)
				return
			}
			WriteJSON(w, 201, out)
		})

		pr.Get("/v1/events/hosted", func(w http.ResponseWriter, r *http.Request) {
			au, _ := middleware.GetAuthUser(r.Context())

			out, err := d.EventSvc.ListHosted(r.Context(), au.UID)
			if err != nil {
				status, msg := mapEventError(err)
				Fail(w, status, msg)
				return
			}
			WriteJSON(w, 200, out)
		})

		pr.Get("/v1/events/{id}", func(w http.ResponseWriter, r *http.Request) {
			out, err := d.EventSvc.Get(r.Context(), chi.URLParam(r, "id"))
			if err != nil {
				status, msg := mapEventError(err)
				Fail(w, status, msg)
				return
			}
			WriteJSON(w, 200, out)
		})

		pr.Patch("/v1/events/{id}", func(w http.ResponseWriter, r *http.Request) {
			au, _ := middleware.GetAuthUser(r.Context())

			var in event.UpdateEventInput
			if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
				Fail(w, 400, "invalid json")
				return
			}

			out, err := d.EventSvc.Update(r.Context(), au.UID, chi.URLParam(r, "id"), in)
			if err != nil {
				status, msg := mapEventError(err)
				Fail(w, status, msg)
				return
			}
			WriteJSON(w, 200, out)
		})

		pr.Post("/v1/events/{id}/cancel", func(w http.ResponseWriter, r *http.Request) {
			au, _ := middleware.GetAuthUser(r.Context())

			out, err := d.EventSvc.Cancel(r.Context(), au.UID, chi.URLParam(r, "id"))
			if err != nil {
				status, msg := mapEventError(err)
				Fail(w, status, msg)
				return
			}
			WriteJSON(w, 200, out)
		})

		pr.Get("/v1/events/{id}/roster", func(w http.ResponseWriter, r *http.Request) {
			au, _ := middleware.GetAuthUser(r.Context())

			out, err := d.BookingSvc.Roster(r.Context(), au.UID, chi.URLParam(r, "id"))
			if err != nil {
				status, msg := mapBookingError(err)
				Fail(w, status, msg)
				return
			}
			WriteJSON(w, 200, out)
		})

		// ===== Bookings =====
		pr.Post("/v1/bookings", func(w http.ResponseWriter, r *http.Request) {
			au, _ := middleware.GetAuthUser(r.Context())

			var in booking.CreateBookingInput
			if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
				Fail(w, 400, "invalid json")
				return
			}

			out, err := d.BookingSvc.Create(r.Context(), au.UID, au.DisplayName(), in)
			if err != nil {
				status, msg := mapBookingError(err)
				Fail(w, status, msg)
				return
			}
			WriteJSON(w, 201, out)
		})

		pr.Get("/v1/bookings", func(w http.ResponseWriter, r *http.Request) {
			au, _ := middleware.GetAuthUser(r.Context())

			out, err := d.BookingSvc.ListForUser(r.Context(), au.UID)
			if err != nil {
				status, msg := mapBookingError(err)
				Fail(w, status, msg)
				return
			}
			WriteJSON(w, 200, out)
		})

		pr.Post("/v1/bookings/{id}/approve", func(w http.ResponseWriter, r *http.Request) {
			au, _ := middleware.GetAuthUser(r.Context())

			out, err := d.BookingSvc.Approve(r.Context(), au.UID, chi.URLParam(r, "id"))
			if err != nil {
				status, msg := mapBookingError(err)
				Fail(w, status, msg)
				return
			}
			WriteJSON(w, 200, out)
		})

		pr.Post("/v1/bookings/{id}/reject", func(w http.ResponseWriter, r *http.Request) {
			au, _ := middleware.GetAuthUser(r.Context())

			out, err := d.BookingSvc.Reject(r.Context(), au.UID, chi.URLParam(r, "id"))
			if err != nil {
				status, msg := mapBookingError(err)
				Fail(w, status, msg)
				return
			}
			WriteJSON(w, 200, out)
		})

		// ===== Profile / onboarding =====
		pr.Get("/v1/profile", func(w http.ResponseWriter, r *http.Request) {
			au, _ := middleware.GetAuthUser(r.Context())

			out, err := d.ProfileSvc.Get(r.Context(), au.UID)
			if err != nil {
				status, msg := mapProfileError(err)
				Fail(w, status, msg)
				return
			}
			WriteJSON(w, 200, out)
		})

		pr.Put("/v1/profile", func(w http.ResponseWriter, r *http.Request) {
			au, _ := middleware.GetAuthUser(r.Context())

			var in profile.UpdateProfileInput
			if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
				Fail(w, 400, "invalid json")
				return
			}

			out, err := d.ProfileSvc.Update(r.Context(), au.UID, in)
			if err != nil {
				status, msg := mapProfileError(err)
				Fail(w, status, msg)
				return
			}
			WriteJSON(w, 200, out)
		})

		pr.Post("/v1/profile/role", func(w http.ResponseWriter, r *http.Request) {
			au, _ := middleware.GetAuthUser(r.Context())

			var in struct {
				Role string `json:"role"`
			}
			if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
				Fail(w, 400, "invalid json")
				return
			}

			if err := d.ProfileSvc.SetRole(r.Context(), au.UID, strings.TrimSpace(in.Role)); err != nil {
				status, msg := mapProfileError(err)
				Fail(w, status, msg)
				return
			}
			WriteJSON(w, 200, map[string]any{"success": true, "nextStep": profile.StepProfileSetup})
		})

		pr.Post("/v1/profile/complete", func(w http.ResponseWriter, r *http.Request) {
			au, _ := middleware.GetAuthUser(r.Context())

			if err := d.ProfileSvc.CompleteProfile(r.Context(), au.UID); err != nil {
				status, msg := mapProfileError(err)
				Fail(w, status, msg)
				return
			}
			WriteJSON(w, 200, map[string]any{"success": true, "nextStep": profile.StepCompleted})
		})

		pr.Get("/v1/profile/settings", func(w http.ResponseWriter, r *http.Request) {
			au, _ := middleware.GetAuthUser(r.Context())

			out, err := d.ProfileSvc.GetSettings(r.Context(), au.UID)
			if err != nil {
				status, msg := mapProfileError(err)
				Fail(w, status, msg)
				return
			}
			WriteJSON(w, 200, out)
		})

		pr.Put("/v1/profile/settings", func(w http.ResponseWriter, r *http.Request) {
			au, _ := middleware.GetAuthUser(r.Context())

			var in profile.Settings
			if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
				Fail(w, 400, "invalid json")
				return
			}

			if err := d.ProfileSvc.UpdateSettings(r.Context(), au.UID, in); err != nil {
				status, msg := mapProfileError(err)
				Fail(w, status, msg)
				return
			}
			WriteJSON(w, 200, map[string]any{"success": true})
		})

		pr.Post("/v1/profile/tokens", func(w http.ResponseWriter, r *http.Request) {
			au, _ := middleware.GetAuthUser(r.Context())

			var in profile.TokensInput
			if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
				Fail(w, 400, "invalid json")
				return
			}

			if err := d.ProfileSvc.SaveTokens(r.Context(), au.UID, in); err != nil {
				status, msg := mapProfileError(err)
				Fail(w, status, msg)
				return
			}
			WriteJSON(w, 200, map[string]any{"success": true})
		})

		pr.Delete("/v1/profile", func(w http.ResponseWriter, r *http.Request) {
			au, _ := middleware.GetAuthUser(r.Context())

			if err := d.ProfileSvc.DeleteAccount(r.Context(), au.UID); err != nil {
				status, msg := mapProfileError(err)
				Fail(w, status, msg)
				return
			}
			WriteJSON(w, 200, map[string]any{"success": true})
		})

		// ===== Chat =====
		pr.Get("/v1/chats/event/{eventId}/messages", func(w http.ResponseWriter, r *http.Request) {
			key := chat.GroupKey(chi.URLParam(r, "eventId"))
			listMessages(w, r, d, key)
		})

		pr.Post("/v1/chats/event/{eventId}/messages", func(w http.ResponseWriter, r *http.Request) {
			key := chat.GroupKey(chi.URLParam(r, "eventId"))
			sendMessage(w, r, d, key)
		})

		pr.Get("/v1/chats/direct/{otherUid}/messages", func(w http.ResponseWriter, r *http.Request) {
			au, _ := middleware.GetAuthUser(r.Context())
			key := chat.DirectKey(au.UID, chi.URLParam(r, "otherUid"))
			listMessages(w, r, d, key)
		})

		pr.Post("/v1/chats/direct/{otherUid}/messages", func(w http.ResponseWriter, r *http.Request) {
			au, _ := middleware.GetAuthUser(r.Context())
			key := chat.DirectKey(au.UID, chi.URLParam(r, "otherUid"))
			sendMessage(w, r, d, key)
		})

		// ===== Notifications =====
		pr.Get("/v1/notifications", func(w http.ResponseWriter, r *http.Request) {
			au, _ := middleware.GetAuthUser(r.Context())

			unreadOnly := r.URL.Query().Get("unread") == "true"
			limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

			out, err := d.NotificationsSvc.ListForUser(r.Context(), au.UID, unreadOnly, limit)
			if err != nil {
				Fail(w, 500, "failed to list notifications")
				return
			}
			WriteJSON(w, 200, out)
		})

		pr.Post("/v1/notifications/read", func(w http.ResponseWriter, r *http.Request) {
			au, _ := middleware.GetAuthUser(r.Context())

			var in notifications.MarkReadInput
			if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
				Fail(w, 400, "invalid json")
				return
			}

			count, err := d.NotificationsSvc.MarkRead(r.Context(), au.UID, in)
			if err != nil {
				Fail(w, 500, "failed to mark notifications read")
				return
			}
			WriteJSON(w, 200, map[string]any{"updated": count})
		})

		// ===== Payments =====
		if d.PaymentsSvc != nil {
			pr.Post("/v1/payments/intent", func(w http.ResponseWriter, r *http.Request) {
				au, _ := middleware.GetAuthUser(r.Context())

				var in payments.CreateIntentInput
				if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
					Fail(w, 400, "invalid json")
					return
				}

				out, err := d.PaymentsSvc.CreateIntent(r.Context(), au.UID, in)
				if err != nil {
					status, msg := mapPaymentsError(err)
					Fail(w, status, msg)
					return
				}
				WriteJSON(w, 201, out)
			})

			pr.Post("/v1/payments/confirm", func(w http.ResponseWriter, r *http.Request) {
				au, _ := middleware.GetAuthUser(r.Context())

				var in payments.ConfirmInput
				if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
					Fail(w, 400, "invalid json")
					return
				}

				if err := d.PaymentsSvc.ConfirmForBooking(r.Context(), au.UID, in); err != nil {
					status, msg := mapPaymentsError(err)
					Fail(w, status, msg)
					return
				}
				WriteJSON(w, 200, map[string]any{"success": true})
			})
		}

		// ===== Uploads =====
		if d.Uploads != nil {
			pr.Post("/v1/uploads/signed-url", d.Uploads.CreateSignedUploadURL)
		}

		// ===== Live streams =====
		registerStreams(pr, d)
	})

	return r
}

func listMessages(w http.ResponseWriter, r *http.Request, d RouterDeps, key string) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	out, err := d.ChatSvc.List(r.Context(), key, limit)
	if err != nil {
		status, msg := mapChatError(err)
		Fail(w, status, msg)
		return
	}
	WriteJSON(w, 200, out)
}

func sendMessage(w http.ResponseWriter, r *http.Request, d RouterDeps, key string) {
	au, _ := middleware.GetAuthUser(r.Context())

	var in chat.SendMessageInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		Fail(w, 400, "invalid json")
		return
	}

	out, err := d.ChatSvc.Send(r.Context(), key, au.UID, au.DisplayName(), in)
	if err != nil {
		status, msg := mapChatError(err)
		Fail(w, status, msg)
		return
	}
	WriteJSON(w, 201, out)
}

// parseEventFilters builds a filter config from query params. Missing
// dimensions stay zero-valued, which the filter engine treats as no-ops.
func parseEventFilters(r *http.Request, cfg config.Config) (event.Filters, int, error) {
	q := r.URL.Query()

	f := event.Filters{
		Query: strings.TrimSpace(q.Get("q")),
		City:  strings.TrimSpace(q.Get("city")),
		Sport: strings.TrimSpace(q.Get("sport")),
		Price: strings.ToLower(strings.TrimSpace(q.Get("price"))),
	}

	if f.Price != "" && f.Price != "all" && f.Price != "free" && f.Price != "paid" {
		return event.Filters{}, 0, errors.New("price must be all, free or paid")
	}

	if ds := q.Get("date"); ds != "" {
		t, err := utils.ParseTime(ds)
		if err != nil {
			return event.Filters{}, 0, errors.New("date must be a valid timestamp")
		}
		f.Date = &t
	}

	if rs := q.Get("radius"); rs != "" {
		radius, err := strconv.ParseFloat(rs, 64)
		if err != nil || radius < 0 {
			return event.Filters{}, 0, errors.New("radius must be a non-negative number")
		}
		f.RadiusMiles = radius
	}

	f.CenterLat = cfg.DefaultCenterLat
	f.CenterLng = cfg.DefaultCenterLng
	if ls := q.Get("lat"); ls != "" {
		if lat, err := strconv.ParseFloat(ls, 64); err == nil {
			f.CenterLat = lat
		}
	}
	if ls := q.Get("lng"); ls != "" {
		if lng, err := strconv.ParseFloat(ls, 64); err == nil {
			f.CenterLng = lng
		}
	}

	limit, _ := strconv.Atoi(q.Get("limit"))

	return f, limit, nil
}

func mapEventError(err error) (int, string) {
	switch {
	case event.IsErrBadRequest(err):
		return 400, err.Error()
	case event.IsErrUnauthorized(err):
		return 403, err.Error()
	case event.IsErrNotFound(err):
		return 404, err.Error()
	default:
		return 500, "internal error"
	}
}

func mapBookingError(err error) (int, string) {
	switch {
	case booking.IsErrBadRequest(err):
		return 400, err.Error()
	case errors.Is(err, booking.ErrDuplicate):
		return 409, err.Error()
	case errors.Is(err, booking.ErrEventFull):
		return 409, err.Error()
	case booking.IsErrUnauthorized(err):
		return 403, err.Error()
	case booking.IsErrNotFound(err):
		return 404, err.Error()
	default:
		return 500, "internal error"
	}
}

func mapProfileError(err error) (int, string) {
	switch {
	case profile.IsErrBadRequest(err):
		return 400, err.Error()
	case profile.IsErrNotFound(err):
		return 404, err.Error()
	default:
		return 500, "internal error"
	}
}

func mapChatError(err error) (int, string) {
	switch {
	case chat.IsErrBadRequest(err):
		return 400, err.Error()
	case chat.IsErrUnauthorized(err):
		return 403, err.Error()
	case errors.Is(err, chat.ErrNotFound):
		return 404, err.Error()
	default:
		return 500, "internal error"
	}
}

func mapPaymentsError(err error) (int, string) {
	switch {
	case payments.IsErrBadRequest(err):
		return 400, err.Error()
	case payments.IsErrNotFound(err):
		return 404, err.Error()
	default:
		return 500, "internal error"
	}
}
