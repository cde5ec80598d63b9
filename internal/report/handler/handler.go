package handler

import (
	"context"

	"github.com/fekuna/omnipos-retail-service/internal/model"
	"github.com/fekuna/omnipos-retail-service/internal/report"
	"github.com/fekuna/omnipos-retail-service/internal/rpc"
	"github.com/fekuna/omnipos-retail-service/pkg/logger"
	"google.golang.org/grpc"
)

const ServiceName = "retail.v1.ReportService"

type MonthlyReportRequest struct {
	Month int `json:"month"`
	Year  int `json:"year"`
}

type ReportServer interface {
	MonthlyReport(ctx context.Context, req *MonthlyReportRequest) (*model.MonthlySalesReport, error)
}

var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*ReportServer)(nil),
	Methods: []grpc.MethodDesc{
		rpc.Unary(ServiceName, "MonthlyReport", ReportServer.MonthlyReport),
	},
}

func Register(s grpc.ServiceRegistrar, srv ReportServer) {
	s.RegisterService(&ServiceDesc, srv)
}

type ReportHandler struct {
	uc     report.UseCase
	logger logger.ZapLogger
}

func NewReportHandler(uc report.UseCase, log logger.ZapLogger) *ReportHandler {
	return &ReportHandler{
		uc:     uc,
		logger: log,
	}
}

func (h *ReportHandler) MonthlyReport(ctx context.Context, req *MonthlyReportRequest) (*model.MonthlySalesReport, error) {
	r, err := h.uc.MonthlyReport(ctx, req.Month, req.Year)
	if err != nil {
		return nil, rpc.Fail(h.logger, "MonthlyReport", err)
	}
	return r, nil
}
