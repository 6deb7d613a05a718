package handlers

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"storefront/internal/middleware"
	"storefront/internal/models"
)

// Profile renders the caller's account and profile.
func Profile(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "profile"
		defer handlePanic(c, route)

		ident, ok := middleware.IdentityFrom(c)
		if !ok {
			c.Redirect(http.StatusSeeOther, middleware.LoginPath)
			c.Abort()
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		account, profile, err := loadAccountAndProfile(ctx, db, ident.ID)
		if err != nil {
			if err == mongo.ErrNoDocuments {
				respondNotFound(c, route)
				return
			}
			respondServerError(c, route, err)
			return
		}

		c.HTML(http.StatusOK, "profile.html", gin.H{
			"account": account,
			"profile": profile,
		})
	}
}

// ProfileEdit updates the caller's account and profile together. The avatar
// upload is optional; both records are written only when the whole form is
// valid.
func ProfileEdit(db *mongo.Database, uploadDir string) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "profile edit"
		defer handlePanic(c, route)

		ident, ok := middleware.IdentityFrom(c)
		if !ok {
			c.Redirect(http.StatusSeeOther, middleware.LoginPath)
			c.Abort()
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		account, profile, err := loadAccountAndProfile(ctx, db, ident.ID)
		if err != nil {
			if err == mongo.ErrNoDocuments {
				respondNotFound(c, route)
				return
			}
			respondServerError(c, route, err)
			return
		}

		if c.Request.Method != http.MethodPost {
			c.HTML(http.StatusOK, "profile_edit.html", gin.H{
				"account": account,
				"profile": profile,
				"errors":  map[string]string{},
			})
			return
		}

		var form ProfileEditForm
		if err := c.ShouldBindWith(&form, binding.FormMultipart); err != nil {
			c.HTML(http.StatusOK, "profile_edit.html", gin.H{
				"account": account,
				"profile": profile,
				"errors":  fieldErrors(err),
				"form":    form,
			})
			return
		}

		username := strings.ToLower(strings.TrimSpace(form.Username))
		if username != account.Username {
			count, err := db.Collection("accounts").CountDocuments(ctx, bson.M{
				"username": username,
				"_id":      bson.M{"$ne": account.ID},
			})
			if err != nil {
				respondServerError(c, route, err)
				return
			}
			if count > 0 {
				c.HTML(http.StatusOK, "profile_edit.html", gin.H{
					"account": account,
					"profile": profile,
					"errors":  map[string]string{"username": "username is already taken"},
					"form":    form,
				})
				return
			}
		}

		avatarPath := profile.AvatarPath
		if file, err := c.FormFile("avatar"); err == nil && file != nil {
			name, err := avatarFileName(file.Filename)
			if err != nil {
				c.HTML(http.StatusOK, "profile_edit.html", gin.H{
					"account": account,
					"profile": profile,
					"errors":  map[string]string{"avatar": err.Error()},
					"form":    form,
				})
				return
			}
			target := filepath.Join(uploadDir, name)
			if err := c.SaveUploadedFile(file, target); err != nil {
				log.Println("[PROFILE] [ERROR] avatar save failed:", err)
				respondServerError(c, route, err)
				return
			}
			avatarPath = "/uploads/" + name
		}

		now := time.Now()
		if _, err := db.Collection("accounts").UpdateByID(ctx, account.ID, bson.M{
			"$set": bson.M{"username": username, "updatedAt": now},
		}); err != nil {
			log.Println("[PROFILE] [ERROR] account update failed:", err)
			respondServerError(c, route, err)
			return
		}
		if _, err := db.Collection("profiles").UpdateByID(ctx, profile.ID, bson.M{
			"$set": bson.M{
				"displayName": strings.TrimSpace(form.DisplayName),
				"bio":         strings.TrimSpace(form.Bio),
				"avatarPath":  avatarPath,
				"updatedAt":   now,
			},
		}); err != nil {
			log.Println("[PROFILE] [ERROR] profile update failed:", err)
			respondServerError(c, route, err)
			return
		}

		log.Println("[PROFILE] [INFO] profile updated:", username)
		c.Redirect(http.StatusSeeOther, "/profile")
	}
}

func loadAccountAndProfile(ctx context.Context, db *mongo.Database, accountID primitive.ObjectID) (models.Account, models.Profile, error) {
	var account models.Account
	if err := db.Collection("accounts").FindOne(ctx, bson.M{"_id": accountID}).Decode(&account); err != nil {
		return models.Account{}, models.Profile{}, err
	}

	var profile models.Profile
	if err := db.Collection("profiles").FindOne(ctx, bson.M{"accountId": accountID}).Decode(&profile); err != nil {
		return models.Account{}, models.Profile{}, err
	}

	return account, profile, nil
}

// avatarFileName picks a random name for a stored avatar, keeping only the
// original extension. Rejects anything that is not an image extension.
func avatarFileName(original string) (string, error) {
	ext := strings.ToLower(filepath.Ext(original))
	switch ext {
	case ".png", ".jpg", ".jpeg", ".webp":
	default:
		return "", fmt.Errorf("unsupported avatar file type: %s", ext)
	}

	var buf [16]byte
	if _, err := rand.Read(buf[:]); err != nil {
		return "", err
	}

	return hex.EncodeToString(buf[:]) + ext, nil
}
