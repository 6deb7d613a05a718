package handlers

import (
	"context"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"

	"storefront/internal/auth"
	"storefront/internal/middleware"
	"storefront/internal/models"
	"storefront/internal/roles"
)

// Signup renders the signup form and creates an account plus its profile.
// Every signup starts in the staff group; a fresh account never lands
// without a role.
func Signup(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "signup"
		defer handlePanic(c, route)

		if c.Request.Method != http.MethodPost {
			c.HTML(http.StatusOK, "signup.html", gin.H{})
			return
		}

		var form SignupForm
		if err := c.ShouldBindWith(&form, binding.FormPost); err != nil {
			c.HTML(http.StatusOK, "signup.html", gin.H{
				"errors": fieldErrors(err),
				"form":   form,
			})
			return
		}

		username := strings.ToLower(strings.TrimSpace(form.Username))

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		count, err := db.Collection("accounts").CountDocuments(ctx, bson.M{"username": username})
		if err != nil {
			log.Println("[AUTH] [ERROR] signup db error:", err)
			respondServerError(c, route, err)
			return
		}
		if count > 0 {
			log.Println("[AUTH] [ERROR] signup username exists:", username)
			c.HTML(http.StatusOK, "signup.html", gin.H{
				"errors": map[string]string{"username": "username is already taken"},
				"form":   form,
			})
			return
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(form.Password), bcrypt.DefaultCost)
		if err != nil {
			log.Println("[AUTH] [ERROR] signup password hash failed:", err)
			respondServerError(c, route, err)
			return
		}

		now := time.Now()
		account := models.Account{
			Username:     username,
			PasswordHash: string(hash),
			Roles:        []string{roles.StaffName},
			CreatedAt:    now,
			UpdatedAt:    now,
		}

		res, err := db.Collection("accounts").InsertOne(ctx, account)
		if err != nil {
			log.Println("[AUTH] [ERROR] signup insert failed:", err)
			respondServerError(c, route, err)
			return
		}

		accountID, _ := res.InsertedID.(primitive.ObjectID)
		profile := models.Profile{
			AccountID: accountID,
			UpdatedAt: now,
		}
		if _, err := db.Collection("profiles").InsertOne(ctx, profile); err != nil {
			log.Println("[AUTH] [ERROR] signup profile insert failed:", err)
			respondServerError(c, route, err)
			return
		}

		log.Println("[AUTH] [INFO] account registered:", username)
		c.Redirect(http.StatusSeeOther, middleware.LoginPath)
	}
}

// Login verifies credentials, sets the session cookie and redirects by role
// priority: admin dashboard first, then staff dashboard, then the index.
func Login(db *mongo.Database, secret string, sessionTTL time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "login"
		defer handlePanic(c, route)

		if c.Request.Method != http.MethodPost {
			c.HTML(http.StatusOK, "login.html", gin.H{})
			return
		}

		var form LoginForm
		if err := c.ShouldBindWith(&form, binding.FormPost); err != nil {
			c.HTML(http.StatusOK, "login.html", gin.H{
				"errors": fieldErrors(err),
				"form":   form,
			})
			return
		}

		username := strings.ToLower(strings.TrimSpace(form.Username))

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		invalidCredentials := func() {
			log.Println("[AUTH] [ERROR] login invalid credentials for:", username)
			c.HTML(http.StatusOK, "login.html", gin.H{
				"errors": map[string]string{NonFieldKey: "Invalid login credentials"},
				"form":   form,
			})
		}

		var account models.Account
		if err := db.Collection("accounts").FindOne(ctx, bson.M{"username": username}).Decode(&account); err != nil {
			if err == mongo.ErrNoDocuments {
				invalidCredentials()
				return
			}
			log.Println("[AUTH] [ERROR] login account lookup failed:", err)
			respondServerError(c, route, err)
			return
		}

		if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(form.Password)); err != nil {
			invalidCredentials()
			return
		}

		rs := roles.Parse(account.Roles)
		token, err := auth.IssueToken(account.ID, account.Username, rs, secret, sessionTTL)
		if err != nil {
			log.Println("[AUTH] [ERROR] login token generation failed:", err)
			respondServerError(c, route, err)
			return
		}

		c.SetCookie(middleware.SessionCookie, token, int(sessionTTL.Seconds()), "/", "", false, true)
		log.Println("[AUTH] [INFO] login succeeded:", username)
		c.Redirect(http.StatusSeeOther, rs.DashboardPath())
	}
}

// Logout destroys the session unconditionally, whatever its prior state.
func Logout() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.SetCookie(middleware.SessionCookie, "", -1, "/", "", false, true)
		c.Redirect(http.StatusSeeOther, middleware.LoginPath)
	}
}
