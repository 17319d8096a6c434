package handlers

import (
	"image"
	_ "image/jpeg"
	_ "image/png"
	"net/http"
	"strconv"

	"winter-of-code-backend/internal/idcard"
	"winter-of-code-backend/internal/logging"
	"winter-of-code-backend/internal/middleware"
	"winter-of-code-backend/internal/service"
)

// maxUploadBytes bounds the multipart form, photo included.
const maxUploadBytes = 5 << 20

// IDCardHandler serves POST /id/generate.
type IDCardHandler struct {
	users  *service.UserService
	render func(idcard.Card) ([]byte, error)
	log    logging.Logger
}

// NewIDCardHandler returns an IDCardHandler bound to the given service.
func NewIDCardHandler(users *service.UserService, log logging.Logger) *IDCardHandler {
	return &IDCardHandler{
		users:  users,
		render: idcard.Render,
		log:    log,
	}
}

// Generate renders a participant ID card as PNG. The per-user quota is
// spent only once the render succeeds; the remaining count and the
// caller's role go out in response headers.
func (h *IDCardHandler) Generate(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r)
	if !ok {
		writeError(w, service.CodeUnauthorized, "missing session", http.StatusUnauthorized)
		return
	}

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeError(w, service.CodeInvalidRequest, "invalid multipart form", http.StatusBadRequest)
		return
	}

	name := r.FormValue("name")
	email := r.FormValue("email")
	githubID := r.FormValue("githubId")
	linkedinID := r.FormValue("linkedinId")
	if name == "" || email == "" || githubID == "" {
		writeError(w, service.CodeInvalidRequest, "name, email and githubId are required", http.StatusBadRequest)
		return
	}

	var photo image.Image
	if file, _, err := r.FormFile("photo"); err == nil {
		defer file.Close()
		if decoded, _, err := image.Decode(file); err == nil {
			photo = decoded
		} else {
			writeError(w, service.CodeInvalidRequest, "photo must be a PNG or JPEG image", http.StatusBadRequest)
			return
		}
	}

	card, err := h.render(idcard.Card{
		Name:     name,
		Email:    email,
		GithubID: githubID,
		Linkedin: linkedinID,
		Role:     user.Role,
		Photo:    photo,
	})
	if err != nil {
		respondServiceError(w, h.log, err)
		return
	}

	left, err := h.users.ConsumeGeneration(user.ID)
	if err != nil {
		respondServiceError(w, h.log, err)
		return
	}

	if linkedinID != "" {
		if err := h.users.SetLinkedin(user.ID, linkedinID); err != nil {
			h.log.Warnf("failed to store linkedin for %s: %v", user.ID, err)
		}
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("X-User-Role", user.Role)
	w.Header().Set("X-Generations-Left", strconv.Itoa(left))
	w.WriteHeader(http.StatusOK)
	w.Write(card)
}
