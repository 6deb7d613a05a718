package handlers

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
	"golang.org/x/crypto/bcrypt"

	"storefront/internal/middleware"
)

func authRouter(db *mongo.Database) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/signup", Signup(db))
	r.POST("/login", Login(db, testSessionSecret, time.Hour))
	return r
}

func TestSignupAssignsStaffRoleAndCreatesOneProfile(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("fresh account", func(mt *mtest.T) {
		mt.AddMockResponses(
			// username uniqueness count
			mtest.CreateCursorResponse(0, "storefront.accounts", mtest.FirstBatch),
			// account insert, profile insert
			mtest.CreateSuccessResponse(),
			mtest.CreateSuccessResponse(),
		)

		r := authRouter(mt.DB)
		form := url.Values{
			"username":         {"alice"},
			"password":         {"longenough"},
			"password_confirm": {"longenough"},
		}
		w := httptest.NewRecorder()
		r.ServeHTTP(w, postForm(mt.T, "/signup", form, nil))

		assert.Equal(mt, http.StatusSeeOther, w.Code)
		assert.Equal(mt, middleware.LoginPath, w.Header().Get("Location"))

		evts := mt.GetAllStartedEvents()
		require.Len(mt, evts, 3)
		assert.Equal(mt, "aggregate", evts[0].CommandName)

		require.Equal(mt, "insert", evts[1].CommandName)
		assert.Equal(mt, "accounts", evts[1].Command.Lookup("insert").StringValue())
		accountDocs, err := evts[1].Command.Lookup("documents").Array().Values()
		require.NoError(mt, err)
		require.Len(mt, accountDocs, 1)
		roleValues, err := accountDocs[0].Document().Lookup("roles").Array().Values()
		require.NoError(mt, err)
		require.Len(mt, roleValues, 1)
		assert.Equal(mt, "staff", roleValues[0].StringValue())

		require.Equal(mt, "insert", evts[2].CommandName)
		assert.Equal(mt, "profiles", evts[2].Command.Lookup("insert").StringValue())
		profileDocs, err := evts[2].Command.Lookup("documents").Array().Values()
		require.NoError(mt, err)
		assert.Len(mt, profileDocs, 1)
	})
}

func loginAccountDoc(t *testing.T, username, password string, roleNames bson.A) bson.D {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return bson.D{
		{Key: "_id", Value: primitive.NewObjectID()},
		{Key: "username", Value: username},
		{Key: "passwordHash", Value: string(hash)},
		{Key: "roles", Value: roleNames},
	}
}

func TestLoginAdminWinsOverStaff(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("admin plus staff lands on admin dashboard", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "storefront.accounts", mtest.FirstBatch,
			loginAccountDoc(mt.T, "alice", "password1", bson.A{"admin", "staff"})))

		r := authRouter(mt.DB)
		form := url.Values{"username": {"alice"}, "password": {"password1"}}
		w := httptest.NewRecorder()
		r.ServeHTTP(w, postForm(mt.T, "/login", form, nil))

		assert.Equal(mt, http.StatusSeeOther, w.Code)
		assert.Equal(mt, "/dashboard/admin", w.Header().Get("Location"))

		var sessionSet bool
		for _, cookie := range w.Result().Cookies() {
			if cookie.Name == middleware.SessionCookie && cookie.Value != "" {
				sessionSet = true
			}
		}
		assert.True(mt, sessionSet)
	})
}

func TestLoginWithoutRolesLandsOnIndex(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("no role goes to index", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "storefront.accounts", mtest.FirstBatch,
			loginAccountDoc(mt.T, "carol", "password1", bson.A{})))

		r := authRouter(mt.DB)
		form := url.Values{"username": {"carol"}, "password": {"password1"}}
		w := httptest.NewRecorder()
		r.ServeHTTP(w, postForm(mt.T, "/login", form, nil))

		assert.Equal(mt, http.StatusSeeOther, w.Code)
		assert.Equal(mt, "/", w.Header().Get("Location"))
	})
}
