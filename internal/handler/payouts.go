package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"golang.org/x/sync/errgroup"

	"ticketsafi/web/internal/model"
	"ticketsafi/web/internal/service/ticketsafi"
	"ticketsafi/web/internal/view"
)

const msgVerifyFailed = "Could not start identity verification. Please try again."

var (
	errWithdrawInvalid  = errors.New(view.MsgWithdrawInvalid)
	errWithdrawTooLarge = errors.New(view.MsgWithdrawTooLarge)
)

type payoutsData struct {
	Wallet  view.Wallet
	History view.History
	Amount  string
	Error   string
	Notice  string
}

func (h *Handler) Payouts(w http.ResponseWriter, r *http.Request) {
	data, err := h.loadPayouts(r, pageParam(r))
	if err != nil {
		h.log(r).Warn("failed to load wallet", "error", err)
		h.renderError(w, r, statusFor(err), view.MsgWalletFailed)
		return
	}
	if r.URL.Query().Has("verify_failed") {
		data.Error = msgVerifyFailed
	}
	h.render(w, r, http.StatusOK, "payouts", "Payouts", data)
}

// loadPayouts fetches the balance and one page of history together. The
// history is optional for the page.
func (h *Handler) loadPayouts(r *http.Request, page int) (payoutsData, error) {
	var (
		wallet  *model.Wallet
		history *model.TransactionPage
	)
	g, ctx := errgroup.WithContext(r.Context())
	g.Go(func() error {
		wl, err := h.api.Wallet(ctx)
		if err != nil {
			return err
		}
		wallet = wl
		return nil
	})
	g.Go(func() error {
		hp, err := h.api.WalletHistory(ctx, page, view.HistoryPageSize)
		if err != nil {
			h.log(r).Warn("failed to load wallet history", "page", page, "error", err)
			return nil
		}
		history = hp
		return nil
	})
	if err := g.Wait(); err != nil {
		return payoutsData{}, err
	}

	data := payoutsData{Wallet: h.mapper.Wallet(*wallet)}
	if history != nil {
		data.History = h.mapper.History(*history, wallet.Currency)
	} else {
		data.History = view.History{Pager: view.Pager{Page: 1, TotalPages: 1}}
	}
	return data, nil
}

// Withdraw requests a payout after checking the amount against the balance
// the API reports.
func (h *Handler) Withdraw(w http.ResponseWriter, r *http.Request) {
	data, err := h.loadPayouts(r, 1)
	if err != nil {
		h.log(r).Warn("failed to load wallet", "error", err)
		h.renderError(w, r, statusFor(err), view.MsgWalletFailed)
		return
	}
	data.Amount = strings.TrimSpace(r.FormValue("amount"))

	if !data.Wallet.CanWithdraw {
		data.Error = data.Wallet.Blocker
		h.render(w, r, http.StatusUnprocessableEntity, "payouts", "Payouts", data)
		return
	}
	amount, err := withdrawalAmount(data.Amount, data.Wallet.BalanceValue)
	if err != nil {
		data.Error = err.Error()
		h.render(w, r, http.StatusUnprocessableEntity, "payouts", "Payouts", data)
		return
	}

	if err := h.api.Withdraw(r.Context(), amount); err != nil {
		h.log(r).Warn("withdrawal failed", "error", err)
		data.Error = ticketsafi.MessageOr(err, view.MsgWithdrawFailed)
		h.render(w, r, statusFor(err), "payouts", "Payouts", data)
		return
	}

	h.log(r).Info("withdrawal requested", "amount", amount)
	if fresh, err := h.loadPayouts(r, 1); err == nil {
		data = fresh
	}
	data.Notice = view.MsgWithdrawOK
	h.render(w, r, http.StatusOK, "payouts", "Payouts", data)
}

// withdrawalAmount validates the typed amount and returns it in the form
// sent to the API.
func withdrawalAmount(raw string, balance float64) (string, error) {
	v, err := strconv.ParseFloat(strings.ReplaceAll(raw, ",", ""), 64)
	if err != nil || v <= 0 {
		return "", errWithdrawInvalid
	}
	if v > balance {
		return "", errWithdrawTooLarge
	}
	return strconv.FormatFloat(v, 'f', 2, 64), nil
}

// VerifyIdentity sends the organizer to the identity verification link.
func (h *Handler) VerifyIdentity(w http.ResponseWriter, r *http.Request) {
	link, err := h.api.WalletLink(r.Context())
	if err != nil || link == "" {
		h.log(r).Warn("failed to get verification link", "error", err)
		http.Redirect(w, r, "/organizer/payouts?verify_failed=1", http.StatusSeeOther)
		return
	}
	http.Redirect(w, r, link, http.StatusSeeOther)
}
