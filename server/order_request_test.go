package storefrontserver

import (
	"bytes"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lamunshop/storefront-api/internal/domains/checkout/application/types"
)

func TestDecodeItems_StructuredArray(t *testing.T) {
	items, err := decodeItems(json.RawMessage(`[{"productId":1,"quantity":2},{"productId":3,"quantity":1}]`))
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, int64(1), items[0].ProductID)
	assert.Equal(t, 2, items[0].Quantity)
	assert.Equal(t, int64(3), items[1].ProductID)
}

func TestDecodeItems_EmbeddedJSONString(t *testing.T) {
	items, err := decodeItems(json.RawMessage(`"[{\"productId\":5,\"quantity\":4}]"`))
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, int64(5), items[0].ProductID)
	assert.Equal(t, 4, items[0].Quantity)
}

func TestDecodeItems_ArrayOfEncodedStrings(t *testing.T) {
	items, err := decodeItems(json.RawMessage(`["{\"productId\":1,\"quantity\":1}","{\"productId\":2,\"quantity\":3}"]`))
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, int64(2), items[1].ProductID)
	assert.Equal(t, 3, items[1].Quantity)
}

func TestDecodeItems_SingleObject(t *testing.T) {
	items, err := decodeItems(json.RawMessage(`{"productId":9,"quantity":1}`))
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, int64(9), items[0].ProductID)
}

func TestDecodeItems_Malformed(t *testing.T) {
	for name, raw := range map[string]string{
		"not json":        `not-json`,
		"garbage string":  `"not an array"`,
		"mixed array":     `[42]`,
		"broken embedded": `["{\"productId\":"]`,
	} {
		t.Run(name, func(t *testing.T) {
			_, err := decodeItems(json.RawMessage(raw))
			var vErr *types.ValidationError
			require.ErrorAs(t, err, &vErr)
			assert.Equal(t, "items", vErr.Field)
		})
	}
}

func TestDecodeItems_Empty(t *testing.T) {
	_, err := decodeItems(nil)
	var vErr *types.ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "items", vErr.Field)
}

func TestNormalizePlaceOrder_JSONBody(t *testing.T) {
	gin.SetMode(gin.TestMode)
	body := `{
		"locale": "th",
		"recipient": "Somchai Jaidee",
		"line1": "88/12 Sukhumvit 71",
		"city": "Bangkok",
		"country": "TH",
		"paymentMethod": "cod",
		"couponCode": "SAVE10",
		"deliveryFee": 35,
		"items": [{"productId":1,"quantity":2}]
	}`
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("POST", "/v1/orders", bytes.NewBufferString(body))
	c.Request.Header.Set("Content-Type", "application/json")

	cmd, slip, err := normalizePlaceOrder(c, 7)
	require.NoError(t, err)
	assert.Nil(t, slip)
	assert.Equal(t, int64(7), cmd.CustomerID)
	assert.Equal(t, "Somchai Jaidee", cmd.Recipient)
	assert.Equal(t, "cod", cmd.PaymentMethod)
	assert.Equal(t, "SAVE10", cmd.CouponCode)
	require.NotNil(t, cmd.DeclaredDeliveryFee)
	assert.Equal(t, 35.0, *cmd.DeclaredDeliveryFee)
	require.Len(t, cmd.Items, 1)
	assert.Equal(t, int64(1), cmd.Items[0].ProductID)
}

func TestNormalizePlaceOrder_MultipartForm(t *testing.T) {
	gin.SetMode(gin.TestMode)
	var buf bytes.Buffer
	form := multipart.NewWriter(&buf)
	fields := map[string]string{
		"recipient":     "Suda K.",
		"line1":         "1 Mu 4",
		"city":          "Chiang Mai",
		"country":       "TH",
		"paymentMethod": "bank_transfer",
		"items":         `[{"productId":2,"quantity":1}]`,
		"deliveryFee":   "42.5",
	}
	for key, value := range fields {
		require.NoError(t, form.WriteField(key, value))
	}
	part, err := form.CreateFormFile("slip", "proof.jpg")
	require.NoError(t, err)
	_, err = part.Write([]byte("jpeg-bytes"))
	require.NoError(t, err)
	require.NoError(t, form.Close())

	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("POST", "/v1/orders", &buf)
	c.Request.Header.Set("Content-Type", form.FormDataContentType())

	cmd, slip, err := normalizePlaceOrder(c, 9)
	require.NoError(t, err)
	require.NotNil(t, slip)
	assert.Equal(t, "proof.jpg", slip.Filename)
	assert.Equal(t, "bank_transfer", cmd.PaymentMethod)
	require.NotNil(t, cmd.DeclaredDeliveryFee)
	assert.Equal(t, 42.5, *cmd.DeclaredDeliveryFee)
	require.Len(t, cmd.Items, 1)
	assert.Equal(t, int64(2), cmd.Items[0].ProductID)
}

func TestNormalizePlaceOrder_URLEncodedForm(t *testing.T) {
	gin.SetMode(gin.TestMode)
	form := url.Values{
		"recipient":     {"Somchai Jaidee"},
		"line1":         {"88/12 Sukhumvit 71"},
		"city":          {"Bangkok"},
		"country":       {"TH"},
		"paymentMethod": {"cod"},
		"items":         {`[{"productId":3,"quantity":2}]`},
	}

	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("POST", "/v1/orders", strings.NewReader(form.Encode()))
	c.Request.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	cmd, slip, err := normalizePlaceOrder(c, 4)
	require.NoError(t, err)
	assert.Nil(t, slip)
	assert.Equal(t, int64(4), cmd.CustomerID)
	assert.Equal(t, "cod", cmd.PaymentMethod)
	require.Len(t, cmd.Items, 1)
	assert.Equal(t, int64(3), cmd.Items[0].ProductID)
	assert.Equal(t, 2, cmd.Items[0].Quantity)
}

func TestNormalizePlaceOrder_RepeatedItemFields(t *testing.T) {
	gin.SetMode(gin.TestMode)
	var buf bytes.Buffer
	form := multipart.NewWriter(&buf)
	require.NoError(t, form.WriteField("recipient", "Suda K."))
	require.NoError(t, form.WriteField("line1", "1 Mu 4"))
	require.NoError(t, form.WriteField("city", "Bangkok"))
	require.NoError(t, form.WriteField("country", "TH"))
	require.NoError(t, form.WriteField("paymentMethod", "cod"))
	require.NoError(t, form.WriteField("items", `{"productId":1,"quantity":1}`))
	require.NoError(t, form.WriteField("items", `{"productId":2,"quantity":5}`))
	require.NoError(t, form.Close())

	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("POST", "/v1/orders", &buf)
	c.Request.Header.Set("Content-Type", form.FormDataContentType())

	cmd, _, err := normalizePlaceOrder(c, 1)
	require.NoError(t, err)
	require.Len(t, cmd.Items, 2)
	assert.Equal(t, int64(2), cmd.Items[1].ProductID)
	assert.Equal(t, 5, cmd.Items[1].Quantity)
}

func TestNormalizePlaceOrder_BadDeliveryFee(t *testing.T) {
	gin.SetMode(gin.TestMode)
	var buf bytes.Buffer
	form := multipart.NewWriter(&buf)
	require.NoError(t, form.WriteField("deliveryFee", "cheap"))
	require.NoError(t, form.WriteField("items", `[{"productId":1,"quantity":1}]`))
	require.NoError(t, form.Close())

	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("POST", "/v1/orders", &buf)
	c.Request.Header.Set("Content-Type", form.FormDataContentType())

	_, _, err := normalizePlaceOrder(c, 1)
	var vErr *types.ValidationError
	require.True(t, errors.As(err, &vErr))
	assert.Equal(t, "deliveryFee", vErr.Field)
}

func TestNormalizePlaceOrder_InvalidJSONBody(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("POST", "/v1/orders", bytes.NewBufferString("{broken"))
	c.Request.Header.Set("Content-Type", "application/json")

	_, _, err := normalizePlaceOrder(c, 1)
	var vErr *types.ValidationError
	require.True(t, errors.As(err, &vErr))
	assert.Equal(t, "body", vErr.Field)
}
