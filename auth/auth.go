// Package auth issues organizer JWTs for the admin API.
package auth

import (
	"encoding/json"
	"net/http"
	"time"

	"lanyard/db"
	"lanyard/globals"
	"lanyard/middleware"
	"lanyard/models"
	"lanyard/utils"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/julienschmidt/httprouter"
	"golang.org/x/crypto/bcrypt"
)

const accessTokenTTL = 12 * time.Hour

type Service struct {
	Users db.UserStore
}

func NewService(users db.UserStore) *Service {
	return &Service{Users: users}
}

type credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (s *Service) HandleSignup(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var input credentials
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid input")
		return
	}
	if input.Username == "" || len(input.Password) < 8 {
		utils.RespondWithError(w, http.StatusBadRequest, "Username and a password of 8+ chars are required")
		return
	}

	existing, err := s.Users.FindByUsername(r.Context(), input.Username)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "db error")
		return
	}
	if existing != nil {
		utils.RespondWithError(w, http.StatusConflict, "Username taken")
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to hash password")
		return
	}

	user := &models.User{
		UserID:    "usr_" + uuid.NewString(),
		Username:  input.Username,
		Password:  string(hashed),
		Role:      []string{"organizer"},
		CreatedAt: time.Now().UTC(),
	}
	if err := s.Users.Insert(r.Context(), user); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "db error")
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, utils.M{"ok": true, "userid": user.UserID})
}

func (s *Service) HandleLogin(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var input credentials
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid input")
		return
	}
	if input.Username == "" || input.Password == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "Username and password are required")
		return
	}

	user, err := s.Users.FindByUsername(r.Context(), input.Username)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "db error")
		return
	}
	if user == nil {
		utils.RespondWithError(w, http.StatusUnauthorized, "Invalid username or password")
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(input.Password)); err != nil {
		utils.RespondWithError(w, http.StatusUnauthorized, "Invalid username or password")
		return
	}

	token, err := generateAccessToken(user)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to generate token")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"ok":     true,
		"token":  token,
		"userid": user.UserID,
	})
}

func generateAccessToken(user *models.User) (string, error) {
	claims := &middleware.Claims{
		Username: user.Username,
		UserID:   user.UserID,
		Role:     user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(accessTokenTTL)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(globals.JwtSecret)
}
