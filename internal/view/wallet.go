package view

import "ticketsafi/web/internal/model"

const (
	MsgWithdrawInvalid  = "Enter an amount greater than zero."
	MsgWithdrawTooLarge = "Amount exceeds your available balance."
	MsgWithdrawFailed   = "Withdrawal failed. Please try again."
	MsgWithdrawOK       = "Withdrawal request submitted."
)

type Wallet struct {
	Balance        string
	BalanceValue   float64
	PendingPayouts string
	Currency       string
	Frozen         bool
	KYCVerified    bool
	CanWithdraw    bool
	// Blocker explains why withdrawals are disabled.
	Blocker string
}

func (m *Mapper) Wallet(w model.Wallet) Wallet {
	cur := w.Currency
	if cur == "" {
		cur = "KES"
	}
	v := Wallet{
		Balance:        cur + " " + Number(w.Balance.Float()),
		BalanceValue:   w.Balance.Float(),
		PendingPayouts: cur + " " + Number(w.PendingPayouts.Float()),
		Currency:       cur,
		Frozen:         w.IsFrozen,
		KYCVerified:    w.IsKYCVerified,
	}
	switch {
	case w.IsFrozen:
		v.Blocker = "Your wallet is frozen. Contact support."
	case !w.IsKYCVerified:
		v.Blocker = "Verify your identity to enable withdrawals."
	case w.Balance.Float() <= 0:
		v.Blocker = "No funds available to withdraw."
	default:
		v.CanWithdraw = true
	}
	return v
}

type Transaction struct {
	ID        string
	Type      string
	Amount    string
	Credit    bool
	Status    string
	Date      string
	Reference string
}

type History struct {
	Transactions []Transaction
	Pager        Pager
}

func (m *Mapper) History(p model.TransactionPage, currency string) History {
	if currency == "" {
		currency = "KES"
	}
	h := History{Pager: Pager{
		Page:       max(p.CurrentPage, 1),
		TotalPages: max(p.TotalPages, 1),
		HasNext:    p.HasNext,
		HasPrev:    p.HasPrevious,
	}}
	for _, t := range p.Results {
		h.Transactions = append(h.Transactions, Transaction{
			ID:        t.ID,
			Type:      t.Type,
			Amount:    currency + " " + Number(t.Amount.Float()),
			Credit:    t.Amount.Float() >= 0,
			Status:    t.Status,
			Date:      t.Date,
			Reference: t.Reference,
		})
	}
	return h
}
