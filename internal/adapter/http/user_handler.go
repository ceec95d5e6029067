package http

import (
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/unimarket/listing-service/internal/adapter/http/middleware"
	"github.com/unimarket/listing-service/internal/user/domain"
	"github.com/unimarket/listing-service/internal/user/usecase"
)

type authResponse struct {
	Token string          `json:"token"`
	User  profileResponse `json:"user"`
}

// HandleRegister serves POST /api/auth/register as multipart form data so
// the optional profile photo rides along with the account fields.
func (h *Handler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		http.Error(w, "invalid multipart form: "+err.Error(), http.StatusBadRequest)
		return
	}

	in := usecase.RegisterInput{
		Name:       r.FormValue("name"),
		Email:      r.FormValue("email"),
		Password:   r.FormValue("password"),
		University: r.FormValue("university"),
		Phone:      r.FormValue("phone"),
		Location:   r.FormValue("location"),
	}

	if file, _, err := r.FormFile("photo"); err == nil {
		data, err := io.ReadAll(file)
		file.Close()
		if err != nil {
			http.Error(w, "failed to read photo: "+err.Error(), http.StatusBadRequest)
			return
		}
		in.Photo = data
	}

	user, token, err := h.auth.Register(r.Context(), in)
	if err != nil {
		h.respondError(w, err)
		return
	}
	h.respondJSON(w, http.StatusCreated, authResponse{Token: token, User: toProfileResponse(user)})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		http.Error(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	user, token, err := h.auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		h.respondError(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, authResponse{Token: token, User: toProfileResponse(user)})
}

func (h *Handler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "not authenticated", http.StatusUnauthorized)
		return
	}

	if err := h.auth.Logout(r.Context(), userID); err != nil {
		h.respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) HandleGetProfile(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	user, err := h.profiles.GetProfile(r.Context(), id)
	if err != nil {
		h.respondError(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, toProfileResponse(user))
}

type updateProfileRequest struct {
	Name       *string `json:"name"`
	University *string `json:"university"`
	Phone      *string `json:"phone"`
	Location   *string `json:"location"`
}

// HandleUpdateProfile serves PATCH /api/users/me.
func (h *Handler) HandleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "not authenticated", http.StatusUnauthorized)
		return
	}

	var req updateProfileRequest
	if err := decodeJSON(r, &req); err != nil {
		http.Error(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	patch := domain.UserPatch{
		Name:       req.Name,
		University: req.University,
		Phone:      req.Phone,
		Location:   req.Location,
	}

	if err := h.profiles.UpdateProfile(r.Context(), userID, patch); err != nil {
		h.respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleUpdateProfilePhoto serves PUT /api/users/me/photo as multipart form
// data with a single "photo" file part.
func (h *Handler) HandleUpdateProfilePhoto(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "not authenticated", http.StatusUnauthorized)
		return
	}

	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		http.Error(w, "invalid multipart form: "+err.Error(), http.StatusBadRequest)
		return
	}

	file, _, err := r.FormFile("photo")
	if err != nil {
		http.Error(w, "photo file is required", http.StatusBadRequest)
		return
	}
	data, err := io.ReadAll(file)
	file.Close()
	if err != nil {
		http.Error(w, "failed to read photo: "+err.Error(), http.StatusBadRequest)
		return
	}

	url, err := h.profiles.UpdateProfilePhoto(r.Context(), userID, data)
	if err != nil {
		h.respondError(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, map[string]string{"photo_url": url})
}
