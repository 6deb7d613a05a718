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
	"go.mongodb.org/mongo-driver/mongo/options"

	"storefront/internal/middleware"
	"storefront/internal/models"
)

// Index is the dashboard every authenticated account can reach. It shows the
// whole catalog and every order, and accepts product deletes plus product
// and order creates.
func Index(db *mongo.Database) gin.HandlerFunc {
	return catalogDashboard(db, "index", "/")
}

// AdminDashboard mirrors the index flow behind the admin gate.
func AdminDashboard(db *mongo.Database) gin.HandlerFunc {
	return catalogDashboard(db, "admin dashboard", "/dashboard/admin")
}

func catalogDashboard(db *mongo.Database, route, redirectTo string) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer handlePanic(c, route)

		productErrs := map[string]string{}
		orderErrs := map[string]string{}

		if c.Request.Method == http.MethodPost {
			var done bool
			productErrs, orderErrs, done = handleCatalogPost(c, db, route, redirectTo)
			if done {
				return
			}
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		products, err := loadProducts(ctx, db)
		if err != nil {
			respondServerError(c, route, err)
			return
		}
		orders, err := loadOrders(ctx, db, bson.M{})
		if err != nil {
			respondServerError(c, route, err)
			return
		}

		ident, _ := middleware.IdentityFrom(c)
		c.HTML(http.StatusOK, "dashboard.html", gin.H{
			"username":      ident.Username,
			"products":      products,
			"orders":        orders,
			"productErrors": productErrs,
			"orderErrors":   orderErrs,
		})
	}
}

// handleCatalogPost runs the write branches in order: delete first, then the
// product form, then the order form. Exactly one branch wins per request;
// when none does, both error maps come back for re-render.
func handleCatalogPost(c *gin.Context, db *mongo.Database, route, redirectTo string) (map[string]string, map[string]string, bool) {
	productErrs := map[string]string{}
	orderErrs := map[string]string{}

	if _, ok := c.GetPostForm("delete_product"); ok {
		if id := strings.TrimSpace(c.PostForm("product_id")); id != "" {
			deleteProductByID(c, db, route, id, redirectTo)
			return nil, nil, true
		}
		// delete flag without an id is a no-op; the create forms still run
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	var productForm ProductForm
	if err := c.ShouldBindWith(&productForm, binding.FormPost); err == nil {
		product := models.Product{
			Name:        strings.TrimSpace(productForm.Name),
			Price:       productForm.Price,
			Description: strings.TrimSpace(productForm.Description),
			CreatedAt:   time.Now(),
		}
		if _, err := db.Collection("products").InsertOne(ctx, product); err != nil {
			log.Println("[CATALOG] [ERROR] product insert failed:", err)
			respondServerError(c, route, err)
			return nil, nil, true
		}
		log.Println("[CATALOG] [INFO] product created:", product.Name)
		c.Redirect(http.StatusSeeOther, redirectTo)
		return nil, nil, true
	} else {
		productErrs = fieldErrors(err)
	}

	var orderForm OrderForm
	if err := c.ShouldBindWith(&orderForm, binding.FormPost); err == nil {
		order, errs := buildOrder(ctx, db, orderForm)
		if len(errs) > 0 {
			orderErrs = errs
			return productErrs, orderErrs, false
		}
		if _, err := db.Collection("orders").InsertOne(ctx, order); err != nil {
			log.Println("[CATALOG] [ERROR] order insert failed:", err)
			respondServerError(c, route, err)
			return nil, nil, true
		}
		log.Println("[CATALOG] [INFO] order created for customer:", order.CustomerID.Hex())
		c.Redirect(http.StatusSeeOther, redirectTo)
		return nil, nil, true
	} else {
		orderErrs = fieldErrors(err)
	}

	return productErrs, orderErrs, false
}

// buildOrder resolves the order form's references. The customer field holds
// the owning account's id, the product field the catalog entry's id; both
// must exist.
func buildOrder(ctx context.Context, db *mongo.Database, form OrderForm) (models.Order, map[string]string) {
	errs := map[string]string{}

	productID, err := primitive.ObjectIDFromHex(strings.TrimSpace(form.Product))
	if err != nil {
		errs["product"] = "product is invalid"
	} else if err := db.Collection("products").FindOne(ctx, bson.M{"_id": productID}).Err(); err != nil {
		if err == mongo.ErrNoDocuments {
			errs["product"] = "product is invalid"
		} else {
			errs[NonFieldKey] = "store error"
		}
	}

	customerID, err := primitive.ObjectIDFromHex(strings.TrimSpace(form.Customer))
	if err != nil {
		errs["customer"] = "customer is invalid"
	} else if err := db.Collection("accounts").FindOne(ctx, bson.M{"_id": customerID}).Err(); err != nil {
		if err == mongo.ErrNoDocuments {
			errs["customer"] = "customer is invalid"
		} else {
			errs[NonFieldKey] = "store error"
		}
	}

	if len(errs) > 0 {
		return models.Order{}, errs
	}

	return models.Order{
		CustomerID: customerID,
		ProductID:  productID,
		Quantity:   form.Quantity,
		Note:       strings.TrimSpace(form.Note),
		Status:     "pending",
		CreatedAt:  time.Now(),
	}, nil
}

func deleteProductByID(c *gin.Context, db *mongo.Database, route, id, redirectTo string) {
	productID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		respondNotFound(c, route)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	result, err := db.Collection("products").DeleteOne(ctx, bson.M{"_id": productID})
	if err != nil {
		log.Println("[CATALOG] [ERROR] product delete failed:", err)
		respondServerError(c, route, err)
		return
	}
	if result.DeletedCount == 0 {
		respondNotFound(c, route)
		return
	}

	log.Println("[CATALOG] [INFO] product deleted:", productID.Hex())
	c.Redirect(http.StatusSeeOther, redirectTo)
}

// StaffDashboard shows the catalog plus only the caller's own orders. Staff
// create orders for themselves and can delete nothing but their own.
func StaffDashboard(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "staff dashboard"
		defer handlePanic(c, route)

		ident, ok := middleware.IdentityFrom(c)
		if !ok {
			c.Redirect(http.StatusSeeOther, middleware.LoginPath)
			c.Abort()
			return
		}

		orderErrs := map[string]string{}

		if c.Request.Method == http.MethodPost {
			var done bool
			orderErrs, done = handleStaffPost(c, db, route, ident.ID)
			if done {
				return
			}
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		products, err := loadProducts(ctx, db)
		if err != nil {
			respondServerError(c, route, err)
			return
		}
		orders, err := loadOrders(ctx, db, bson.M{"customerId": ident.ID})
		if err != nil {
			respondServerError(c, route, err)
			return
		}

		c.HTML(http.StatusOK, "staff_dashboard.html", gin.H{
			"username":    ident.Username,
			"products":    products,
			"orders":      orders,
			"orderErrors": orderErrs,
		})
	}
}

func handleStaffPost(c *gin.Context, db *mongo.Database, route string, callerID primitive.ObjectID) (map[string]string, bool) {
	if _, ok := c.GetPostForm("delete_order"); ok {
		if id := strings.TrimSpace(c.PostForm("order_id")); id != "" {
			deleteOwnOrderByID(c, db, route, id, callerID)
			return nil, true
		}
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	var form StaffOrderForm
	if err := c.ShouldBindWith(&form, binding.FormPost); err != nil {
		return fieldErrors(err), false
	}

	order, errs := buildOrder(ctx, db, OrderForm{
		Product:  form.Product,
		Customer: callerID.Hex(),
		Quantity: form.Quantity,
		Note:     form.Note,
	})
	if len(errs) > 0 {
		return errs, false
	}

	if _, err := db.Collection("orders").InsertOne(ctx, order); err != nil {
		log.Println("[CATALOG] [ERROR] staff order insert failed:", err)
		respondServerError(c, route, err)
		return nil, true
	}

	log.Println("[CATALOG] [INFO] staff order created by:", callerID.Hex())
	c.Redirect(http.StatusSeeOther, "/dashboard/staff")
	return nil, true
}

// deleteOwnOrderByID scopes the delete to the caller: an order owned by a
// different account looks exactly like a missing one.
func deleteOwnOrderByID(c *gin.Context, db *mongo.Database, route, id string, callerID primitive.ObjectID) {
	orderID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		respondNotFound(c, route)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	result, err := db.Collection("orders").DeleteOne(ctx, bson.M{
		"_id":        orderID,
		"customerId": callerID,
	})
	if err != nil {
		log.Println("[CATALOG] [ERROR] order delete failed:", err)
		respondServerError(c, route, err)
		return
	}
	if result.DeletedCount == 0 {
		respondNotFound(c, route)
		return
	}

	log.Println("[CATALOG] [INFO] order deleted:", orderID.Hex())
	c.Redirect(http.StatusSeeOther, "/dashboard/staff")
}

func loadProducts(ctx context.Context, db *mongo.Database) ([]models.Product, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})

	cursor, err := db.Collection("products").Find(ctx, bson.M{}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	products := make([]models.Product, 0)
	if err := cursor.All(ctx, &products); err != nil {
		return nil, err
	}
	return products, nil
}

func loadOrders(ctx context.Context, db *mongo.Database, filter bson.M) ([]models.Order, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})

	cursor, err := db.Collection("orders").Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	orders := make([]models.Order, 0)
	if err := cursor.All(ctx, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}
