package entity

// BalanceView is the user-facing rendering of a wallet balance. All fields
// are formatted in major units with the currency's fixed decimal places.
type BalanceView struct {
	UserID           string `json:"userId"`
	Available        string `json:"available"`
	Pending          string `json:"pending"`
	PlatformCredit   string `json:"platformCredit"`
	ReferralEarnings string `json:"referralEarnings"`
	Total            string `json:"total"`
	Currency         string `json:"currency"`
}

// FormatBalance derives the display view from a raw balance. A nil balance
// means "not yet loaded" and yields the zero display rather than an error.
func FormatBalance(b *WalletBalance) BalanceView {
	if b == nil {
		zero := FormatMinorUnits(0, DefaultCurrency)
		return BalanceView{
			Available:        zero,
			Pending:          zero,
			PlatformCredit:   zero,
			ReferralEarnings: zero,
			Total:            zero,
			Currency:         DefaultCurrency,
		}
	}

	return BalanceView{
		UserID:           b.UserID,
		Available:        FormatMinorUnits(b.Available, b.Currency),
		Pending:          FormatMinorUnits(b.Pending, b.Currency),
		PlatformCredit:   FormatMinorUnits(b.PlatformCredit, b.Currency),
		ReferralEarnings: FormatMinorUnits(b.ReferralEarnings, b.Currency),
		Total:            FormatMinorUnits(b.Total(), b.Currency),
		Currency:         b.Currency,
	}
}
