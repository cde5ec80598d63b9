package handler

import (
	"context"
	"time"

	"github.com/fekuna/omnipos-retail-service/internal/auth"
	"github.com/fekuna/omnipos-retail-service/internal/model"
	"github.com/fekuna/omnipos-retail-service/internal/rpc"
	"github.com/fekuna/omnipos-retail-service/internal/sale"
	"github.com/fekuna/omnipos-retail-service/internal/sale/dto"
	"github.com/fekuna/omnipos-retail-service/pkg/logger"
	"github.com/shopspring/decimal"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const ServiceName = "retail.v1.SaleService"

type SaleItemRequest struct {
	ProductID          int64           `json:"product_id"`
	WarehouseID        int64           `json:"warehouse_id"`
	Quantity           int             `json:"quantity"`
	UnitPrice          decimal.Decimal `json:"unit_price"`
	DiscountPercentage decimal.Decimal `json:"discount_percentage"`
}

type PostSaleRequest struct {
	CustomerID         int64             `json:"customer_id"`
	Items              []SaleItemRequest `json:"items"`
	DiscountPercentage decimal.Decimal   `json:"discount_percentage"`
	TaxPercentage      decimal.Decimal   `json:"tax_percentage"`
	PaymentMethod      string            `json:"payment_method"`
	PaymentStatus      string            `json:"payment_status"`
	Notes              *string           `json:"notes"`
}

type GetSaleRequest struct {
	ID int64 `json:"id"`
}

type ListSalesRequest struct {
	CustomerID *int64     `json:"customer_id"`
	UserID     *int64     `json:"user_id"`
	StartDate  *time.Time `json:"start_date"`
	EndDate    *time.Time `json:"end_date"`
	Page       int        `json:"page"`
	PageSize   int        `json:"page_size"`
}

type ListSalesResponse struct {
	Sales []model.Sale `json:"sales"`
	Total int          `json:"total"`
}

type SaleServer interface {
	PostSale(ctx context.Context, req *PostSaleRequest) (*model.Sale, error)
	GetSale(ctx context.Context, req *GetSaleRequest) (*model.Sale, error)
	ListSales(ctx context.Context, req *ListSalesRequest) (*ListSalesResponse, error)
}

var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*SaleServer)(nil),
	Methods: []grpc.MethodDesc{
		rpc.Unary(ServiceName, "PostSale", SaleServer.PostSale),
		rpc.Unary(ServiceName, "GetSale", SaleServer.GetSale),
		rpc.Unary(ServiceName, "ListSales", SaleServer.ListSales),
	},
}

func Register(s grpc.ServiceRegistrar, srv SaleServer) {
	s.RegisterService(&ServiceDesc, srv)
}

type SaleHandler struct {
	uc     sale.UseCase
	logger logger.ZapLogger
}

func NewSaleHandler(uc sale.UseCase, log logger.ZapLogger) *SaleHandler {
	return &SaleHandler{
		uc:     uc,
		logger: log,
	}
}

func (h *SaleHandler) PostSale(ctx context.Context, req *PostSaleRequest) (*model.Sale, error) {
	userID, ok := auth.GetUserID(ctx)
	if !ok {
		return nil, status.Error(codes.Unauthenticated, "no acting user on request")
	}

	items := make([]dto.SaleItemInput, len(req.Items))
	for i, it := range req.Items {
		items[i] = dto.SaleItemInput{
			ProductID:          it.ProductID,
			WarehouseID:        it.WarehouseID,
			Quantity:           it.Quantity,
			UnitPrice:          it.UnitPrice,
			DiscountPercentage: it.DiscountPercentage,
		}
	}

	s, err := h.uc.PostSale(ctx, &dto.PostSaleInput{
		CustomerID:         req.CustomerID,
		Items:              items,
		DiscountPercentage: req.DiscountPercentage,
		TaxPercentage:      req.TaxPercentage,
		PaymentMethod:      req.PaymentMethod,
		PaymentStatus:      req.PaymentStatus,
		Notes:              req.Notes,
		UserID:             userID,
	})
	if err != nil {
		return nil, rpc.Fail(h.logger, "PostSale", err)
	}
	return s, nil
}

func (h *SaleHandler) GetSale(ctx context.Context, req *GetSaleRequest) (*model.Sale, error) {
	s, err := h.uc.GetSale(ctx, req.ID)
	if err != nil {
		return nil, rpc.Fail(h.logger, "GetSale", err)
	}
	return s, nil
}

func (h *SaleHandler) ListSales(ctx context.Context, req *ListSalesRequest) (*ListSalesResponse, error) {
	items, total, err := h.uc.ListSales(ctx, &dto.SaleFilters{
		CustomerID: req.CustomerID,
		UserID:     req.UserID,
		StartDate:  req.StartDate,
		EndDate:    req.EndDate,
		Page:       req.Page,
		PageSize:   req.PageSize,
	})
	if err != nil {
		return nil, rpc.Fail(h.logger, "ListSales", err)
	}
	return &ListSalesResponse{Sales: items, Total: total}, nil
}
