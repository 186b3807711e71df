package ticketsafi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"

	"ticketsafi/web/internal/model"
)

// InitiatePayment starts a mobile-money charge. The API answers once the
// charge request is accepted; confirmation is observed through the ticket.
func (c *Client) InitiatePayment(ctx context.Context, req model.PaymentRequest) (*model.PaymentResult, error) {
	var result model.PaymentResult
	if _, err := c.sendJSON(ctx, http.MethodPost, "/api/pay/initiate/", nil, req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) ListTickets(ctx context.Context) ([]model.Ticket, error) {
	data, err := c.getList(ctx, "/api/tickets/", nil)
	if err != nil {
		return nil, err
	}
	return decodeList[model.Ticket](data)
}

func (c *Client) GetTicket(ctx context.Context, id string) (*model.Ticket, error) {
	var ticket model.Ticket
	if err := c.getJSON(ctx, "/api/tickets/"+url.PathEscape(id)+"/", nil, &ticket); err != nil {
		return nil, err
	}
	return &ticket, nil
}

// VerifyTicket checks a scanned QR payload in. An already used ticket comes
// back as a KindConflict error together with the details of the first scan.
func (c *Client) VerifyTicket(ctx context.Context, qrHash string) (*model.VerifyResult, error) {
	var result model.VerifyResult
	_, err := c.sendJSON(ctx, http.MethodPost, "/api/scanner/verify/", nil, map[string]string{"qr_hash": qrHash}, &result)
	if err != nil {
		var apiErr *Error
		if errors.As(err, &apiErr) && apiErr.Kind == KindConflict {
			var used model.VerifyResult
			if json.Unmarshal(apiErr.raw, &used) == nil {
				return &used, err
			}
		}
		return nil, err
	}
	return &result, nil
}
