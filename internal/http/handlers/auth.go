package handlers

import (
	"database/sql"
	"net/http"
	"strings"
	"time"

	intconfig "github.com/ces0491/fleet-manager/internal/config"

	"github.com/gin-gonic/gin"
	"github.com/go-sql-driver/mysql"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// JWTSecret is set from env at startup.
var JWTSecret = []byte("super-secret-key-change-me")

// AuthUser is the user payload returned by login/register.
type AuthUser struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone,omitempty"`
	Role  string `json:"role"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type registerRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required"`
	Phone    string `json:"phone"`
	Password string `json:"password" binding:"required,min=8"`
	Role     string `json:"role"`
}

// POST /api/auth/login
func Login(c *gin.Context) {
	var req loginRequest
	if !BindJSONOrError(c, &req) {
		return
	}

	var (
		user         AuthUser
		passwordHash string
	)
	err := intconfig.DB.QueryRow(`
		SELECT id, name, email, COALESCE(phone,''), password_hash, role
		FROM users
		WHERE email = ?
	`, strings.ToLower(strings.TrimSpace(req.Email))).Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&user.Phone,
		&passwordHash,
		&user.Role,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid email or password"})
		} else {
			respondError(c, http.StatusInternalServerError, "storage_error", "failed to query user", nil)
		}
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(passwordHash), []byte(req.Password)); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid email or password"})
		return
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": user.ID,
		"role":    user.Role,
		"exp":     time.Now().Add(24 * time.Hour).Unix(),
	})
	tokenString, err := token.SignedString(JWTSecret)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "internal_error", "failed to sign token", nil)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token": tokenString,
		"user":  user,
	})
}

// POST /api/auth/register
func Register(c *gin.Context) {
	var req registerRequest
	if !BindJSONOrError(c, &req) {
		return
	}

	role := strings.ToLower(strings.TrimSpace(req.Role))
	if role == "" {
		role = "staff"
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "internal_error", "failed to hash password", nil)
		return
	}

	res, err := intconfig.DB.Exec(`
		INSERT INTO users (name, email, phone, password_hash, role)
		VALUES (?, ?, ?, ?, ?)
	`, strings.TrimSpace(req.Name), strings.ToLower(strings.TrimSpace(req.Email)), req.Phone, string(hash), role)
	if err != nil {
		if me, ok := err.(*mysql.MySQLError); ok && me.Number == 1062 {
			respondError(c, http.StatusConflict, "conflict", "email already registered", nil)
			return
		}
		respondError(c, http.StatusInternalServerError, "storage_error", "failed to create user", nil)
		return
	}

	id, _ := res.LastInsertId()
	c.JSON(http.StatusCreated, gin.H{
		"user": AuthUser{ID: id, Name: req.Name, Email: req.Email, Phone: req.Phone, Role: role},
	})
}
