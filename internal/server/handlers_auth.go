package server

import (
	"net/http"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/samuymanu/bici-fix-pro/internal/domain"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string     `json:"token"`
	User  publicUser `json:"user"`
}

type publicUser struct {
	ID    int64  `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  string `json:"role"`
}

// handleLogin authenticates a staff member and issues a JWT
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "bad_request", "email and password are required", nil)
		return
	}

	user, err := s.repos.Users.GetByEmail(r.Context(), email)
	if err != nil || !checkPassword(user.PasswordHash, req.Password) {
		// Same answer for unknown email and wrong password
		writeError(w, http.StatusUnauthorized, "unauthorized", "invalid credentials", nil)
		return
	}

	token, err := s.generateToken(user)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal", "failed to issue token", nil)
		return
	}

	writeJSON(w, http.StatusOK, loginResponse{
		Token: token,
		User:  publicUser{ID: user.ID, Email: user.Email, Name: user.Name, Role: user.Role},
	})
}

// handleMe returns the authenticated user's claims
func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	claims := getUserClaims(r)
	if claims == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized", "authentication required", nil)
		return
	}
	writeJSON(w, http.StatusOK, publicUser{ID: claims.UserID, Email: claims.Email, Role: claims.Role})
}

type createUserRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
	Role     string `json:"role"`
}

// handleCreateUser registers a staff account (admin only)
func (s *Server) handleCreateUser(w http.ResponseWriter, r *http.Request) {
	var req createUserRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Email == "" || len(req.Password) < 8 || req.Name == "" {
		writeError(w, http.StatusBadRequest, "bad_request", "email, name and a password of at least 8 characters are required", nil)
		return
	}
	if req.Role != domain.RoleAdmin && req.Role != domain.RoleTechnician {
		writeError(w, http.StatusBadRequest, "bad_request", "role must be admin or tecnico", nil)
		return
	}

	hash, err := hashPassword(req.Password)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal", "failed to hash password", nil)
		return
	}

	user := &domain.User{
		Email:        req.Email,
		PasswordHash: hash,
		Name:         req.Name,
		Role:         req.Role,
		CreatedAt:    time.Now(),
	}
	if err := s.repos.Users.Create(r.Context(), user); err != nil {
		writeRepoError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, publicUser{ID: user.ID, Email: user.Email, Name: user.Name, Role: user.Role})
}

func hashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(bytes), err
}

func checkPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
