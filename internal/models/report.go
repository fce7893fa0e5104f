package models

// ReportType selects which tables a report contains.
type ReportType string

const (
	ReportComplete          ReportType = "complete"
	ReportAssetTransactions ReportType = "assetTransactions"
	ReportDividend          ReportType = "dividend"
	ReportAssets            ReportType = "assets"
)

// ReportTypes lists the valid report types in display order.
var ReportTypes = []ReportType{ReportComplete, ReportAssetTransactions, ReportDividend, ReportAssets}

// DividendRecord is one row of the yearly dividend statement.
type DividendRecord struct {
	Asset    string  `json:"asset"`
	Amount   float64 `json:"amount"`
	Category string  `json:"category"`
}

// Transaction is one brokerage movement (buy, sell, transfer...).
type Transaction struct {
	TradeDate   string  `json:"trade_date"`
	Movement    string  `json:"movement"`
	Market      string  `json:"market"`
	Maturity    string  `json:"maturity"`
	Institution string  `json:"institution"`
	Symbol      string  `json:"symbol"`
	Quantity    float64 `json:"quantity"`
	Price       float64 `json:"price"`
	Value       float64 `json:"value"`
	Month       int     `json:"month"`
	Year        int     `json:"year"`
}

// Report is a rendered report ready to be saved or displayed.
type Report struct {
	Type        ReportType `json:"type"`
	Year        int        `json:"year"`
	FileName    string     `json:"file_name"`
	Markdown    string     `json:"markdown"`
	GeneratedAt string     `json:"generated_at"`
}
