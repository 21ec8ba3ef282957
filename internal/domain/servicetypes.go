package domain

const (
	ServiceFTTHLookup   string = "tra_cuu_ftth"
	ServiceEVNBill      string = "gach_dien_evn"
	ServiceMultiTopup   string = "nap_tien_da_mang"
	ServiceViettelTopup string = "nap_tien_viettel"
	ServiceTVInternet   string = "thanh_toan_tv_internet"
	ServicePostpaidDebt string = "tra_cuu_no_tra_sau"
)

const (
	// ModePrepaid bare subscriber number, amount chosen separately.
	ModePrepaid string = "prepaid"
	// ModePostpaid subscriber number with debt amount, "number|amount".
	ModePostpaid string = "postpaid"
)

// ServiceInfo describes one service type. RequiredFields drives per-type input
// validation instead of scattering boolean flags across the validator.
type ServiceInfo struct {
	ID             string
	Name           string
	Description    string
	Category       string
	UpstreamType   string
	RequiredFields []string
	RequiresMode   bool
}

var services = map[string]ServiceInfo{
	ServiceFTTHLookup: {
		ID:             ServiceFTTHLookup,
		Name:           "Tra cứu FTTH",
		Description:    "Tra cứu thông tin thuê bao FTTH",
		Category:       "lookup",
		UpstreamType:   "check_ftth",
		RequiredFields: []string{"codes"},
	},
	ServiceEVNBill: {
		ID:             ServiceEVNBill,
		Name:           "Gạch điện EVN",
		Description:    "Thanh toán hóa đơn điện EVN",
		Category:       "payment",
		UpstreamType:   "env",
		RequiredFields: []string{"codes", "pin"},
	},
	ServiceMultiTopup: {
		ID:             ServiceMultiTopup,
		Name:           "Nạp tiền đa mạng",
		Description:    "Nạp tiền cho nhiều nhà mạng",
		Category:       "topup",
		UpstreamType:   "deposit",
		RequiredFields: []string{"codes", "pin", "mode"},
		RequiresMode:   true,
	},
	ServiceViettelTopup: {
		ID:             ServiceViettelTopup,
		Name:           "Nạp tiền Viettel",
		Description:    "Nạp tiền mạng Viettel",
		Category:       "topup",
		UpstreamType:   "deposit_viettel",
		RequiredFields: []string{"codes", "pin", "amount"},
	},
	ServiceTVInternet: {
		ID:             ServiceTVInternet,
		Name:           "TV - Internet",
		Description:    "Thanh toán dịch vụ TV và Internet",
		Category:       "payment",
		UpstreamType:   "payment_tv",
		RequiredFields: []string{"codes", "pin"},
	},
	ServicePostpaidDebt: {
		ID:             ServicePostpaidDebt,
		Name:           "Tra cứu trả sau",
		Description:    "Tra cứu nợ thuê bao trả sau",
		Category:       "lookup",
		UpstreamType:   "check_debt",
		RequiredFields: []string{"codes"},
	},
}

var serviceOrder = []string{
	ServiceFTTHLookup,
	ServiceEVNBill,
	ServiceMultiTopup,
	ServiceViettelTopup,
	ServiceTVInternet,
	ServicePostpaidDebt,
}

// ServiceByID returns the catalog entry for a service type.
func ServiceByID(id string) (ServiceInfo, bool) {
	info, ok := services[id]
	return info, ok
}

// AllServices returns the catalog in stable display order.
func AllServices() []ServiceInfo {
	out := make([]ServiceInfo, 0, len(serviceOrder))
	for _, id := range serviceOrder {
		out = append(out, services[id])
	}
	return out
}

// IsValidTransactionStatus reports whether s is a known transaction status.
func IsValidTransactionStatus(s string) bool {
	switch s {
	case TransactionStatusPending, TransactionStatusProcessing, TransactionStatusSuccess, TransactionStatusFailed:
		return true
	}
	return false
}

// IsTerminalTransactionStatus reports whether s is a final transaction state.
func IsTerminalTransactionStatus(s string) bool {
	return s == TransactionStatusSuccess || s == TransactionStatusFailed
}
