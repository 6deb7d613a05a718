package handlers

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"storefront/internal/middleware"
	"storefront/internal/models"
)

// OrderList renders every order for any authenticated account.
func OrderList(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "order list"
		defer handlePanic(c, route)

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		orders, err := loadOrders(ctx, db, bson.M{})
		if err != nil {
			respondServerError(c, route, err)
			return
		}

		ident, _ := middleware.IdentityFrom(c)
		c.HTML(http.StatusOK, "orders.html", gin.H{
			"username": ident.Username,
			"orders":   orders,
		})
	}
}

// UpdateOrder edits a single order by id. Any authenticated account may edit
// any order.
// TODO: restrict updates to admins or the owning staff account.
func UpdateOrder(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "order update"
		defer handlePanic(c, route)

		orderID, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			respondNotFound(c, route)
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var order models.Order
		if err := db.Collection("orders").FindOne(ctx, bson.M{"_id": orderID}).Decode(&order); err != nil {
			if err == mongo.ErrNoDocuments {
				respondNotFound(c, route)
				return
			}
			respondServerError(c, route, err)
			return
		}

		if c.Request.Method != http.MethodPost {
			c.HTML(http.StatusOK, "order_edit.html", gin.H{
				"order":  order,
				"errors": map[string]string{},
			})
			return
		}

		var form OrderUpdateForm
		if err := c.ShouldBindWith(&form, binding.FormPost); err != nil {
			c.HTML(http.StatusOK, "order_edit.html", gin.H{
				"order":  order,
				"errors": fieldErrors(err),
			})
			return
		}

		update := bson.M{"$set": bson.M{
			"quantity": form.Quantity,
			"status":   form.Status,
			"note":     form.Note,
		}}
		if _, err := db.Collection("orders").UpdateByID(ctx, orderID, update); err != nil {
			log.Println("[ORDER] [ERROR] order update failed:", err)
			respondServerError(c, route, err)
			return
		}

		log.Println("[ORDER] [INFO] order updated:", orderID.Hex())
		c.Redirect(http.StatusSeeOther, "/dashboard/admin")
	}
}
