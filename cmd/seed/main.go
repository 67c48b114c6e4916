// Command seed fills the orders table with generated data for load and
// query experiments. It drives the same repository the service uses, so
// seeded items share the production key layout.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"time"

	"go.uber.org/zap"

	"orders-backend/domain"
	"orders-backend/infrastructure/config"
	"orders-backend/infrastructure/di"
)

var products = []string{"Coffee", "Tea", "Espresso", "Croissant", "Bagel", "Muffin"}

func main() {
	customers := flag.Int("customers", 10, "number of customers to seed")
	perCustomer := flag.Int("orders", 50, "orders per customer")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	ctx := context.Background()
	container, err := di.NewContainer(ctx, cfg)
	if err != nil {
		log.Fatalf("failed to initialize container: %v", err)
	}
	logger := container.Logger

	for c := 0; c < *customers; c++ {
		customerID, err := domain.NewOrderID()
		if err != nil {
			logger.Fatal("failed to generate customer ID", zap.Error(err))
		}

		orders := make([]domain.Order, 0, *perCustomer)
		for o := 0; o < *perCustomer; o++ {
			orderID, err := domain.NewOrderID()
			if err != nil {
				logger.Fatal("failed to generate order ID", zap.Error(err))
			}
			orders = append(orders, randomOrder(customerID, orderID))
		}

		envelope, err := container.Repository.BatchCreate(ctx, orders)
		if err != nil {
			logger.Fatal("batch create failed",
				zap.String("customer_id", customerID),
				zap.Error(err),
			)
		}

		logger.Info("seeded customer",
			zap.String("customer_id", customerID),
			zap.Int("orders", envelope.Data),
			zap.Float64("wcu", envelope.Capacity.WCU),
		)
	}

	fmt.Printf("seeded %d customers with %d orders each\n", *customers, *perCustomer)
}

func randomOrder(customerID, orderID string) domain.Order {
	count := 1 + rand.Intn(3)
	items := make([]domain.OrderItem, 0, count)
	total := 0.0
	for i := 0; i < count; i++ {
		item := domain.OrderItem{
			Product:  products[rand.Intn(len(products))],
			Quantity: 1 + rand.Intn(5),
			Price:    float64(100+rand.Intn(2000)) / 100,
		}
		total += float64(item.Quantity) * item.Price
		items = append(items, item)
	}

	return domain.Order{
		OrderID:    orderID,
		CustomerID: customerID,
		Status:     domain.StatusPending,
		Items:      items,
		Total:      total,
		CreatedAt:  time.Now().UTC(),
	}
}
