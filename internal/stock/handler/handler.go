package handler

import (
	"context"
	"time"

	"github.com/fekuna/omnipos-retail-service/internal/auth"
	"github.com/fekuna/omnipos-retail-service/internal/model"
	"github.com/fekuna/omnipos-retail-service/internal/rpc"
	"github.com/fekuna/omnipos-retail-service/internal/stock"
	"github.com/fekuna/omnipos-retail-service/internal/stock/dto"
	"github.com/fekuna/omnipos-retail-service/pkg/logger"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const ServiceName = "retail.v1.StockService"

type CreateStockRequest struct {
	ProductID    int64 `json:"product_id"`
	WarehouseID  int64 `json:"warehouse_id"`
	Quantity     int   `json:"quantity"`
	MinimumStock int   `json:"minimum_stock"`
}

type AdjustStockRequest struct {
	StockID        int64   `json:"stock_id"`
	QuantityChange int     `json:"quantity_change"`
	AdjustmentType string  `json:"adjustment_type"`
	Reason         string  `json:"reason"`
	Notes          *string `json:"notes"`
}

type CorrectStockRequest struct {
	StockID     int64   `json:"stock_id"`
	NewQuantity int     `json:"new_quantity"`
	Reason      string  `json:"reason"`
	Notes       *string `json:"notes"`
}

type AdjustStockResponse struct {
	Stock      *model.Stock           `json:"stock"`
	Adjustment *model.StockAdjustment `json:"adjustment"`
}

type SetMinimumStockRequest struct {
	StockID      int64 `json:"stock_id"`
	MinimumStock int   `json:"minimum_stock"`
}

type GetStockRequest struct {
	ID int64 `json:"id"`
}

type ListStocksRequest struct {
	ProductID   *int64 `json:"product_id"`
	WarehouseID *int64 `json:"warehouse_id"`
	LowStock    bool   `json:"low_stock"`
	Page        int    `json:"page"`
	PageSize    int    `json:"page_size"`
}

type ListStocksResponse struct {
	Stocks []model.Stock `json:"stocks"`
	Total  int           `json:"total"`
}

type ListAdjustmentsRequest struct {
	StockID        *int64     `json:"stock_id"`
	UserID         *int64     `json:"user_id"`
	AdjustmentType string     `json:"adjustment_type"`
	StartDate      *time.Time `json:"start_date"`
	EndDate        *time.Time `json:"end_date"`
	Page           int        `json:"page"`
	PageSize       int        `json:"page_size"`
}

type ListAdjustmentsResponse struct {
	Adjustments []model.StockAdjustment `json:"adjustments"`
	Total       int                     `json:"total"`
}

type StockServer interface {
	CreateStock(ctx context.Context, req *CreateStockRequest) (*AdjustStockResponse, error)
	AdjustStock(ctx context.Context, req *AdjustStockRequest) (*AdjustStockResponse, error)
	CorrectStock(ctx context.Context, req *CorrectStockRequest) (*AdjustStockResponse, error)
	SetMinimumStock(ctx context.Context, req *SetMinimumStockRequest) (*model.Stock, error)
	GetStock(ctx context.Context, req *GetStockRequest) (*model.Stock, error)
	ListStocks(ctx context.Context, req *ListStocksRequest) (*ListStocksResponse, error)
	ListLowStock(ctx context.Context, req *ListStocksRequest) (*ListStocksResponse, error)
	ListAdjustments(ctx context.Context, req *ListAdjustmentsRequest) (*ListAdjustmentsResponse, error)
}

var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*StockServer)(nil),
	Methods: []grpc.MethodDesc{
		rpc.Unary(ServiceName, "CreateStock", StockServer.CreateStock),
		rpc.Unary(ServiceName, "AdjustStock", StockServer.AdjustStock),
		rpc.Unary(ServiceName, "CorrectStock", StockServer.CorrectStock),
		rpc.Unary(ServiceName, "SetMinimumStock", StockServer.SetMinimumStock),
		rpc.Unary(ServiceName, "GetStock", StockServer.GetStock),
		rpc.Unary(ServiceName, "ListStocks", StockServer.ListStocks),
		rpc.Unary(ServiceName, "ListLowStock", StockServer.ListLowStock),
		rpc.Unary(ServiceName, "ListAdjustments", StockServer.ListAdjustments),
	},
}

func Register(s grpc.ServiceRegistrar, srv StockServer) {
	s.RegisterService(&ServiceDesc, srv)
}

type StockHandler struct {
	uc     stock.UseCase
	logger logger.ZapLogger
}

func NewStockHandler(uc stock.UseCase, log logger.ZapLogger) *StockHandler {
	return &StockHandler{
		uc:     uc,
		logger: log,
	}
}

func actingUser(ctx context.Context) (int64, error) {
	id, ok := auth.GetUserID(ctx)
	if !ok {
		return 0, status.Error(codes.Unauthenticated, "no acting user on request")
	}
	return id, nil
}

func adjustResponse(res *dto.AdjustResult) *AdjustStockResponse {
	return &AdjustStockResponse{Stock: res.Stock, Adjustment: res.Adjustment}
}

func (h *StockHandler) CreateStock(ctx context.Context, req *CreateStockRequest) (*AdjustStockResponse, error) {
	userID, err := actingUser(ctx)
	if err != nil {
		return nil, err
	}
	res, err := h.uc.CreateStock(ctx, &dto.CreateStockInput{
		ProductID:    req.ProductID,
		WarehouseID:  req.WarehouseID,
		Quantity:     req.Quantity,
		MinimumStock: req.MinimumStock,
		UserID:       userID,
	})
	if err != nil {
		return nil, rpc.Fail(h.logger, "CreateStock", err)
	}
	return adjustResponse(res), nil
}

func (h *StockHandler) AdjustStock(ctx context.Context, req *AdjustStockRequest) (*AdjustStockResponse, error) {
	userID, err := actingUser(ctx)
	if err != nil {
		return nil, err
	}
	res, err := h.uc.Adjust(ctx, &dto.AdjustStockInput{
		StockID:        req.StockID,
		QuantityChange: req.QuantityChange,
		AdjustmentType: model.AdjustmentType(req.AdjustmentType),
		Reason:         req.Reason,
		Notes:          req.Notes,
		UserID:         userID,
	})
	if err != nil {
		return nil, rpc.Fail(h.logger, "AdjustStock", err)
	}
	return adjustResponse(res), nil
}

func (h *StockHandler) CorrectStock(ctx context.Context, req *CorrectStockRequest) (*AdjustStockResponse, error) {
	userID, err := actingUser(ctx)
	if err != nil {
		return nil, err
	}
	res, err := h.uc.Correct(ctx, &dto.CorrectStockInput{
		StockID:     req.StockID,
		NewQuantity: req.NewQuantity,
		Reason:      req.Reason,
		Notes:       req.Notes,
		UserID:      userID,
	})
	if err != nil {
		return nil, rpc.Fail(h.logger, "CorrectStock", err)
	}
	return adjustResponse(res), nil
}

func (h *StockHandler) SetMinimumStock(ctx context.Context, req *SetMinimumStockRequest) (*model.Stock, error) {
	st, err := h.uc.SetMinimumStock(ctx, req.StockID, req.MinimumStock)
	if err != nil {
		return nil, rpc.Fail(h.logger, "SetMinimumStock", err)
	}
	return st, nil
}

func (h *StockHandler) GetStock(ctx context.Context, req *GetStockRequest) (*model.Stock, error) {
	st, err := h.uc.GetStock(ctx, req.ID)
	if err != nil {
		return nil, rpc.Fail(h.logger, "GetStock", err)
	}
	return st, nil
}

func (h *StockHandler) ListStocks(ctx context.Context, req *ListStocksRequest) (*ListStocksResponse, error) {
	items, total, err := h.uc.ListStocks(ctx, &dto.StockFilters{
		ProductID:   req.ProductID,
		WarehouseID: req.WarehouseID,
		LowStock:    req.LowStock,
		Page:        req.Page,
		PageSize:    req.PageSize,
	})
	if err != nil {
		return nil, rpc.Fail(h.logger, "ListStocks", err)
	}
	return &ListStocksResponse{Stocks: items, Total: total}, nil
}

func (h *StockHandler) ListLowStock(ctx context.Context, req *ListStocksRequest) (*ListStocksResponse, error) {
	items, total, err := h.uc.ListLowStock(ctx, req.WarehouseID, req.Page, req.PageSize)
	if err != nil {
		return nil, rpc.Fail(h.logger, "ListLowStock", err)
	}
	return &ListStocksResponse{Stocks: items, Total: total}, nil
}

func (h *StockHandler) ListAdjustments(ctx context.Context, req *ListAdjustmentsRequest) (*ListAdjustmentsResponse, error) {
	items, total, err := h.uc.ListAdjustments(ctx, &dto.AdjustmentFilters{
		StockID:        req.StockID,
		UserID:         req.UserID,
		AdjustmentType: model.AdjustmentType(req.AdjustmentType),
		StartDate:      req.StartDate,
		EndDate:        req.EndDate,
		Page:           req.Page,
		PageSize:       req.PageSize,
	})
	if err != nil {
		return nil, rpc.Fail(h.logger, "ListAdjustments", err)
	}
	return &ListAdjustmentsResponse{Adjustments: items, Total: total}, nil
}
