package storefrontserver

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/lamunshop/storefront-api/internal/domains/checkout/application/types"
)

// placeOrderRequest is the wire shape shared by the JSON and multipart
// variants of the order-creation endpoint. Items stays raw until decoding so
// both structured arrays and embedded JSON strings can be accepted.
type placeOrderRequest struct {
	Locale              string          `json:"locale"`
	Recipient           string          `json:"recipient"`
	Line1               string          `json:"line1"`
	Line2               string          `json:"line2"`
	Line3               string          `json:"line3"`
	City                string          `json:"city"`
	PostalCode          string          `json:"postalCode"`
	Country             string          `json:"country"`
	PaymentMethod       string          `json:"paymentMethod"`
	CouponCode          string          `json:"couponCode"`
	OriginProvince      string          `json:"originProvince"`
	DestinationProvince string          `json:"destinationProvince"`
	DeliveryFee         *float64        `json:"deliveryFee"`
	SlipURL             string          `json:"slipUrl"`
	Items               json.RawMessage `json:"items"`
}

func (r placeOrderRequest) toCommand(customerID int64, items []types.ItemInput) types.PlaceOrderCommand {
	return types.PlaceOrderCommand{
		CustomerID:          customerID,
		Locale:              r.Locale,
		Recipient:           r.Recipient,
		Line1:               r.Line1,
		Line2:               r.Line2,
		Line3:               r.Line3,
		City:                r.City,
		PostalCode:          r.PostalCode,
		Country:             r.Country,
		PaymentMethod:       r.PaymentMethod,
		CouponCode:          r.CouponCode,
		OriginProvince:      r.OriginProvince,
		DestinationProvince: r.DestinationProvince,
		DeclaredDeliveryFee: r.DeliveryFee,
		SlipPath:            r.SlipURL,
		Items:               items,
	}
}

// normalizePlaceOrder turns either accepted wire shape into one canonical
// command plus the optional slip file. All shape errors come back as
// ValidationError so the transport maps them uniformly to 400.
func normalizePlaceOrder(c *gin.Context, customerID int64) (types.PlaceOrderCommand, *multipart.FileHeader, error) {
	contentType := c.ContentType()
	if strings.HasPrefix(contentType, "multipart/form-data") ||
		contentType == "application/x-www-form-urlencoded" {
		return normalizeFormOrder(c, customerID)
	}
	var req placeOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		return types.PlaceOrderCommand{}, nil, &types.ValidationError{Field: "body", Reason: "must be a JSON object"}
	}
	items, err := decodeItems(req.Items)
	if err != nil {
		return types.PlaceOrderCommand{}, nil, err
	}
	return req.toCommand(customerID, items), nil, nil
}

func normalizeFormOrder(c *gin.Context, customerID int64) (types.PlaceOrderCommand, *multipart.FileHeader, error) {
	req := placeOrderRequest{
		Locale:              c.PostForm("locale"),
		Recipient:           c.PostForm("recipient"),
		Line1:               c.PostForm("line1"),
		Line2:               c.PostForm("line2"),
		Line3:               c.PostForm("line3"),
		City:                c.PostForm("city"),
		PostalCode:          c.PostForm("postalCode"),
		Country:             c.PostForm("country"),
		PaymentMethod:       c.PostForm("paymentMethod"),
		CouponCode:          c.PostForm("couponCode"),
		OriginProvince:      c.PostForm("originProvince"),
		DestinationProvince: c.PostForm("destinationProvince"),
		SlipURL:             c.PostForm("slipUrl"),
	}
	if raw, ok := c.GetPostForm("deliveryFee"); ok && raw != "" {
		fee, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return types.PlaceOrderCommand{}, nil, &types.ValidationError{Field: "deliveryFee", Reason: "must be a number"}
		}
		req.DeliveryFee = &fee
	}
	items, err := decodeFormItems(c.PostFormArray("items"))
	if err != nil {
		return types.PlaceOrderCommand{}, nil, err
	}
	// urlencoded bodies cannot carry a file part at all, so ErrNotMultipart
	// means the same thing ErrMissingFile does for multipart: no slip.
	slip, err := c.FormFile("slip")
	if err != nil && err != http.ErrMissingFile && err != http.ErrNotMultipart {
		return types.PlaceOrderCommand{}, nil, &types.ValidationError{Field: "slip", Reason: "file part is malformed"}
	}
	return req.toCommand(customerID, items), slip, nil
}

// decodeItems accepts the item list as a structured JSON array, a JSON string
// containing such an array, or an array of JSON-encoded strings.
func decodeItems(raw json.RawMessage) ([]types.ItemInput, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return nil, &types.ValidationError{Field: "items", Reason: "is required"}
	}
	if trimmed[0] == '"' {
		var embedded string
		if err := json.Unmarshal(trimmed, &embedded); err != nil {
			return nil, malformedItems()
		}
		return decodeItems(json.RawMessage(embedded))
	}
	if trimmed[0] == '{' {
		var item types.ItemInput
		if err := json.Unmarshal(trimmed, &item); err != nil {
			return nil, malformedItems()
		}
		return []types.ItemInput{item}, nil
	}
	var items []types.ItemInput
	if err := json.Unmarshal(trimmed, &items); err == nil {
		return items, nil
	}
	var encoded []string
	if err := json.Unmarshal(trimmed, &encoded); err != nil {
		return nil, malformedItems()
	}
	items = items[:0]
	for _, entry := range encoded {
		decoded, err := decodeItems(json.RawMessage(entry))
		if err != nil {
			return nil, err
		}
		items = append(items, decoded...)
	}
	return items, nil
}

// decodeFormItems handles the multipart variants: one field value holding a
// JSON array (or single object), or the field repeated once per JSON-encoded
// item.
func decodeFormItems(values []string) ([]types.ItemInput, error) {
	if len(values) == 0 {
		return nil, &types.ValidationError{Field: "items", Reason: "is required"}
	}
	var items []types.ItemInput
	for _, value := range values {
		decoded, err := decodeItems(json.RawMessage(value))
		if err != nil {
			return nil, err
		}
		items = append(items, decoded...)
	}
	return items, nil
}

func malformedItems() error {
	return &types.ValidationError{Field: "items", Reason: "must be a JSON array of {productId, quantity}"}
}
