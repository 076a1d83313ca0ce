package nats

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	natsio "github.com/nats-io/nats.go"
	"github.com/sirupsen/logrus"

	"github.com/wilmangio/orders-ms/internal/domain"
)

const (
	SubjectCreateOrder  = "orders.create"
	SubjectFindOrders   = "orders.find_all"
	SubjectFindOrder    = "orders.find_one"
	SubjectChangeStatus = "orders.change_status"

	queueGroup   = "orders"
	defaultLimit = 10
)

type OrderHandler struct {
	useCase domain.OrderUseCase
	log     *logrus.Logger
}

func NewOrderHandler(uc domain.OrderUseCase, logger *logrus.Logger) *OrderHandler {
	return &OrderHandler{
		useCase: uc,
		log:     logger,
	}
}

// Subscribe registers the queue subscriptions for the four order operations.
func (h *OrderHandler) Subscribe(conn *natsio.Conn) error {
	handlers := map[string]func(context.Context, []byte) []byte{
		SubjectCreateOrder:  h.createOrder,
		SubjectFindOrders:   h.findOrders,
		SubjectFindOrder:    h.findOrderByID,
		SubjectChangeStatus: h.changeOrderStatus,
	}

	for subject, handle := range handlers {
		handle := handle
		_, err := conn.QueueSubscribe(subject, queueGroup, func(msg *natsio.Msg) {
			reply := handle(context.Background(), msg.Data)
			if err := msg.Respond(reply); err != nil {
				h.log.Errorf("Failed to respond on subject %s: %v", msg.Subject, err)
			}
		})
		if err != nil {
			return fmt.Errorf("failed to subscribe to %s: %w", subject, err)
		}
		h.log.Infof("Subscribed to subject %s (queue %s)", subject, queueGroup)
	}
	return nil
}

type createOrderRequest struct {
	Items []domain.OrderItemRequest `json:"items"`
}

func (h *OrderHandler) createOrder(ctx context.Context, data []byte) []byte {
	var req createOrderRequest
	if err := json.Unmarshal(data, &req); err != nil {
		h.log.Warnf("Failed to decode create order request: %v", err)
		return errorReply(http.StatusBadRequest, "invalid request payload")
	}
	if len(req.Items) == 0 {
		return errorReply(http.StatusBadRequest, "items cannot be empty")
	}
	for i, item := range req.Items {
		if item.ProductID == "" {
			return errorReply(http.StatusBadRequest, fmt.Sprintf("item %d: productId is required", i))
		}
		if item.Quantity <= 0 {
			return errorReply(http.StatusBadRequest, fmt.Sprintf("item %d (product %s): quantity must be positive", i, item.ProductID))
		}
	}

	order, err := h.useCase.CreateOrder(ctx, req.Items)
	if err != nil {
		h.log.Errorf("Failed to create order: %v", err)
		status, message := mapError(err)
		if status == http.StatusInternalServerError {
			// Creation failures collapse to a plain rejection.
			status, message = http.StatusBadRequest, "could not create order"
		}
		return errorReply(status, message)
	}

	h.log.Infof("Order %s created successfully", order.ID)
	return successReply(order)
}

type findOrdersRequest struct {
	Page   *int    `json:"page"`
	Limit  *int    `json:"limit"`
	Status *string `json:"status"`
}

func (h *OrderHandler) findOrders(ctx context.Context, data []byte) []byte {
	req := findOrdersRequest{}
	if len(data) > 0 {
		if err := json.Unmarshal(data, &req); err != nil {
			h.log.Warnf("Failed to decode find orders request: %v", err)
			return errorReply(http.StatusBadRequest, "invalid request payload")
		}
	}

	page := 1
	if req.Page != nil {
		if *req.Page < 1 {
			return errorReply(http.StatusBadRequest, "page must be a positive integer")
		}
		page = *req.Page
	}
	limit := defaultLimit
	if req.Limit != nil {
		if *req.Limit < 1 {
			return errorReply(http.StatusBadRequest, "limit must be a positive integer")
		}
		limit = *req.Limit
	}

	var status *domain.OrderStatus
	if req.Status != nil && *req.Status != "" {
		s := domain.OrderStatus(*req.Status)
		if !domain.IsValidStatus(s) {
			return errorReply(http.StatusBadRequest, fmt.Sprintf("invalid status value '%s'", *req.Status))
		}
		status = &s
	}

	result, err := h.useCase.FindAll(ctx, page, limit, status)
	if err != nil {
		h.log.Errorf("Failed to list orders (page %d, limit %d): %v", page, limit, err)
		return errorReply(mapError(err))
	}
	return successReply(result)
}

type findOrderRequest struct {
	ID string `json:"id"`
}

func (h *OrderHandler) findOrderByID(ctx context.Context, data []byte) []byte {
	var req findOrderRequest
	if err := json.Unmarshal(data, &req); err != nil {
		h.log.Warnf("Failed to decode find order request: %v", err)
		return errorReply(http.StatusBadRequest, "invalid request payload")
	}
	if req.ID == "" {
		return errorReply(http.StatusBadRequest, "id is required")
	}

	order, err := h.useCase.FindOne(ctx, req.ID)
	if err != nil {
		h.log.Warnf("Failed to retrieve order %s: %v", req.ID, err)
		return errorReply(mapError(err))
	}
	return successReply(order)
}

type changeStatusRequest struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

func (h *OrderHandler) changeOrderStatus(ctx context.Context, data []byte) []byte {
	var req changeStatusRequest
	if err := json.Unmarshal(data, &req); err != nil {
		h.log.Warnf("Failed to decode change status request: %v", err)
		return errorReply(http.StatusBadRequest, "invalid request payload")
	}
	if req.ID == "" {
		return errorReply(http.StatusBadRequest, "id is required")
	}
	status := domain.OrderStatus(req.Status)
	if !domain.IsValidStatus(status) {
		return errorReply(http.StatusBadRequest, fmt.Sprintf("invalid status value '%s'", req.Status))
	}

	order, err := h.useCase.ChangeStatus(ctx, req.ID, status)
	if err != nil {
		h.log.Errorf("Failed to change status of order %s to '%s': %v", req.ID, req.Status, err)
		return errorReply(mapError(err))
	}

	h.log.Infof("Order %s status is now '%s'", order.ID, order.Status)
	return successReply(order)
}
