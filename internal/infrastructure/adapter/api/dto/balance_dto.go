package dto

// BalanceResponse represents the API response for a user's wallet balance.
// All amounts are formatted in major units of the wallet currency.
type BalanceResponse struct {
	UserID           string `json:"userId"`
	Available        string `json:"available"`
	Pending          string `json:"pending"`
	PlatformCredit   string `json:"platformCredit"`
	ReferralEarnings string `json:"referralEarnings"`
	Total            string `json:"total"`
	Currency         string `json:"currency"`
}
