package ticketsafi

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"ticketsafi/web/internal/model"
)

func (c *Client) Wallet(ctx context.Context) (*model.Wallet, error) {
	var wallet model.Wallet
	if err := c.getJSON(ctx, "/api/organizer/wallet/", nil, &wallet); err != nil {
		return nil, err
	}
	if wallet.Currency == "" {
		wallet.Currency = "KES"
	}
	return &wallet, nil
}

func (c *Client) WalletHistory(ctx context.Context, page, pageSize int) (*model.TransactionPage, error) {
	if page < 1 {
		page = 1
	}
	q := url.Values{
		"action":    {"history"},
		"page":      {strconv.Itoa(page)},
		"page_size": {strconv.Itoa(pageSize)},
	}
	var history model.TransactionPage
	if err := c.getJSON(ctx, "/api/organizer/wallet/", q, &history); err != nil {
		return nil, err
	}
	return &history, nil
}

// Withdraw requests a payout of amount from the organizer wallet.
func (c *Client) Withdraw(ctx context.Context, amount string) error {
	_, err := c.sendJSON(ctx, http.MethodPost, "/api/organizer/wallet/", nil, map[string]string{"amount": amount}, nil)
	return err
}

func (c *Client) ActivateWallet(ctx context.Context) error {
	_, err := c.sendJSON(ctx, http.MethodPost, "/api/organizer/wallet/activate/", nil, nil, nil)
	return err
}

// WalletLink returns the identity verification (KYC) link for the wallet.
func (c *Client) WalletLink(ctx context.Context) (string, error) {
	var out struct {
		MagicLink string `json:"magic_link"`
	}
	if err := c.getJSON(ctx, "/api/organizer/wallet/link/", nil, &out); err != nil {
		return "", err
	}
	return out.MagicLink, nil
}
