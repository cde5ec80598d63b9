package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type MonthlySalesReport struct {
	Month             int                `json:"month"`
	Year              int                `json:"year"`
	TotalSales        decimal.Decimal    `json:"total_sales"`
	TotalTransactions int                `json:"total_transactions"`
	TopSellingItems   []TopSellingItem   `json:"top_selling_items"`
	SalesByWarehouse  []SalesByWarehouse `json:"sales_by_warehouse"`
	SalesByEmployee   []SalesByEmployee  `json:"sales_by_employee"`
	GeneratedAt       time.Time          `json:"generated_at"`
}

type TopSellingItem struct {
	ProductID     int64           `db:"product_id" json:"product_id"`
	ProductName   string          `db:"product_name" json:"product_name"`
	TotalQuantity int             `db:"total_quantity" json:"total_quantity"`
	TotalRevenue  decimal.Decimal `db:"total_revenue" json:"total_revenue"`
}

type SalesByWarehouse struct {
	WarehouseID      int64           `db:"warehouse_id" json:"warehouse_id"`
	WarehouseName    string          `db:"warehouse_name" json:"warehouse_name"`
	TotalSales       decimal.Decimal `db:"total_sales" json:"total_sales"`
	TransactionCount int             `db:"transaction_count" json:"transaction_count"`
}

type SalesByEmployee struct {
	UserID           int64           `db:"user_id" json:"user_id"`
	EmployeeName     string          `db:"employee_name" json:"employee_name"`
	TotalSales       decimal.Decimal `db:"total_sales" json:"total_sales"`
	TransactionCount int             `db:"transaction_count" json:"transaction_count"`
}
