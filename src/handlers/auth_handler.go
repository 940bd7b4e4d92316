package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	db "sysfinance-server/src/db/sql"
	"sysfinance-server/src/models"
	"sysfinance-server/src/util"

	"github.com/golang-jwt/jwt/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/crypto/bcrypt"
)

func generateToken(userID int64, username, role string) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id":  userID,
		"username": username,
		"role":     role,
		"exp":      time.Now().Add(time.Hour * 168).Unix(),
	})
	return token.SignedString([]byte(os.Getenv("JWT_SECRET")))
}

func Register(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req models.RegisterRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			log.Printf("ERROR: Failed to decode register request body: %v", err)
			http.Error(w, "invalid request", http.StatusBadRequest)
			return
		}

		// Stored lowercase so the login lookup agrees with registration.
		req.Email = util.NormalizeLogin(req.Email)
		req.Username = util.NormalizeLogin(req.Username)

		var errs []string
		if !util.ValidateUsername(req.Username) {
			errs = append(errs, "username must be between 3 and 30 characters")
		}
		if !util.ValidateEmail(req.Email) {
			errs = append(errs, "invalid email format")
		}
		if !util.ValidatePassword(req.Password) {
			errs = append(errs, "password must be at least 8 characters with uppercase, lowercase, digit, and special character")
		}
		if len(errs) > 0 {
			log.Printf("ERROR: Registration validation failed - Username: %s", req.Username)
			writeErrors(w, http.StatusBadRequest, errs)
			return
		}

		hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			log.Printf("ERROR: Failed to hash password for user %s: %v", req.Username, err)
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		// New self-registered users start with the least-privileged role.
		resp, err := db.CreateUser(r.Context(), pool, req.Username, req.Email, models.RoleVisitor, string(hashedPassword))
		if err != nil {
			// Handle duplicate key
			if strings.Contains(err.Error(), "duplicate key") {
				log.Printf("ERROR: Registration failed - email or username already exists - Email: %s, Username: %s", req.Email, req.Username)
				writeErrors(w, http.StatusConflict, []string{"email or username already exists"})
				return
			}
			log.Printf("ERROR: Failed to create user %s: %v", req.Username, err)
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		log.Printf("INFO: Successful registration - User: %s, ID: %d", resp.Username, resp.ID)

		if err := db.InsertAuditLog(r.Context(), pool, &resp.ID, "register", "user registered"); err != nil {
			log.Printf("ERROR: Failed to write audit entry for registration of user %d: %v", resp.ID, err)
		}

		tokenString, err := generateToken(resp.ID, resp.Username, resp.Role)
		if err != nil {
			log.Printf("ERROR: Failed to generate JWT token for user %s: %v", resp.Username, err)
			http.Error(w, "Error generating token", http.StatusInternalServerError)
			return
		}

		writeJSON(w, http.StatusCreated, map[string]string{
			"token": tokenString,
		})
	}
}

func Login(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var credentials struct {
			UsernameOrEmail string `json:"username"`
			Password        string `json:"password"`
		}

		if err := json.NewDecoder(r.Body).Decode(&credentials); err != nil {
			log.Printf("ERROR: Failed to decode login request body: %v", err)
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		login := util.NormalizeLogin(credentials.UsernameOrEmail)
		user, err := db.GetUserByUsername(r.Context(), pool, login)
		if err != nil {
			user, err = db.GetUserByEmail(r.Context(), pool, login)

			if err != nil {
				log.Printf("ERROR: Failed to find user during login - Username/Email: %s: %v", credentials.UsernameOrEmail, err)
				http.Error(w, "Invalid credentials", http.StatusUnauthorized)
				return
			}
		}

		if err := bcrypt.CompareHashAndPassword(user.PasswordHash, []byte(credentials.Password)); err != nil {
			log.Printf("ERROR: Invalid password attempt for username/email %s from IP %s",
				credentials.UsernameOrEmail, r.RemoteAddr)
			http.Error(w, "Invalid credentials", http.StatusUnauthorized)
			return
		}

		tokenString, err := generateToken(user.ID, user.Username, user.Role)
		if err != nil {
			log.Printf("ERROR: Failed to generate JWT token for user %s: %v",
				user.Username, err)
			http.Error(w, "Error generating token", http.StatusInternalServerError)
			return
		}

		if err := db.InsertAuditLog(r.Context(), pool, &user.ID, "login", "user logged in"); err != nil {
			log.Printf("ERROR: Failed to write audit entry for login of user %d: %v", user.ID, err)
		}

		log.Printf("INFO: Successful login - User: %s, ID: %d", user.Username, user.ID)

		writeJSON(w, http.StatusOK, map[string]string{
			"token": tokenString,
		})
	}
}
