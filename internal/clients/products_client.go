package clients

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/sirupsen/logrus"

	"github.com/wilmangio/orders-ms/internal/domain"
)

type Product struct {
	ID    string  `json:"id"`
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}

// ProductsClient resolves a batch of product ids against the catalog
// service. The reply contains only the ids the catalog could resolve;
// a missing id means the product does not exist.
type ProductsClient interface {
	Validate(ctx context.Context, productIDs []string) ([]Product, error)
}

type natsProductsClient struct {
	conn    *nats.Conn
	subject string
	timeout time.Duration
	log     *logrus.Logger
}

func NewNatsProductsClient(conn *nats.Conn, subject string, timeout time.Duration, logger *logrus.Logger) ProductsClient {
	return &natsProductsClient{
		conn:    conn,
		subject: subject,
		timeout: timeout,
		log:     logger,
	}
}

func (c *natsProductsClient) Validate(ctx context.Context, productIDs []string) ([]Product, error) {
	payload, err := json.Marshal(productIDs)
	if err != nil {
		c.log.Errorf("ProductsClient: Failed to marshal validation request for %d ids: %v", len(productIDs), err)
		return nil, fmt.Errorf("failed to prepare product validation request: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	c.log.Debugf("ProductsClient: Requesting validation of %d product ids on subject %s", len(productIDs), c.subject)
	msg, err := c.conn.RequestWithContext(ctx, c.subject, payload)
	if err != nil {
		c.log.Errorf("ProductsClient: Validation request on %s failed: %v", c.subject, err)
		if errors.Is(err, nats.ErrNoResponders) || errors.Is(err, context.DeadlineExceeded) {
			return nil, fmt.Errorf("%w: %v", domain.ErrCatalogUnavailable, err)
		}
		return nil, fmt.Errorf("product validation request failed: %w", err)
	}

	var products []Product
	if err := json.Unmarshal(msg.Data, &products); err != nil {
		c.log.Errorf("ProductsClient: Failed to decode validation reply: %v", err)
		return nil, fmt.Errorf("failed to decode product validation reply: %w", err)
	}

	c.log.Infof("ProductsClient: Catalog resolved %d of %d requested product ids", len(products), len(productIDs))
	return products, nil
}
