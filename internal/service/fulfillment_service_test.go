package service

import (
	"artcase-backend/internal/errors"
	"artcase-backend/internal/fulfillment"
	"artcase-backend/internal/model"
	"bytes"
	"context"
	stderrors "errors"
	"image"
	"image/png"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func imageServer(t *testing.T) *httptest.Server {
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 10, 20))))
	data := buf.Bytes()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(data)
	}))
}

func fulfillmentInput() FulfillmentInput {
	return FulfillmentInput{
		DesignID:    12,
		FirstName:   "Ann",
		LastName:    "Lee",
		Email:       "ann@example.com",
		PhoneNumber: "555",
		Address:     "1 Main St",
		City:        "Austin",
		Country:     "US",
	}
}

func TestFulfill(t *testing.T) {
	srv := imageServer(t)
	defer srv.Close()

	designs := new(MockDesignRepository)
	fs := new(MockFileStorage)
	printer := new(MockPrintSubmitter)
	designs.On("GetByID", 12).Return(&model.Design{ID: 12, ImageURL: srv.URL + "/d.png", SKU: "PhoneCase-iPhone-15"}, nil)
	fs.On("UploadBytes", mock.Anything, mock.Anything, mock.MatchedBy(func(p string) bool {
		return strings.HasPrefix(p, "print/12/") && strings.HasSuffix(p, ".png")
	}), "image/png").Return("https://cdn.example.com/print.png", nil)
	printer.On("SubmitOrder", mock.Anything, mock.MatchedBy(func(o fulfillment.Order) bool {
		return len(o.Items) == 1 && o.Items[0].SKU == "PhoneCase-iPhone-15" &&
			o.Items[0].Images[0].URL == "https://cdn.example.com/print.png" && o.ShipToAddress.City == "Austin"
	})).Return(map[string]interface{}{"Id": "GOO-1"}, nil)

	result, err := NewFulfillmentService(designs, fs, printer, srv.Client()).Fulfill(context.Background(), fulfillmentInput())
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/print.png", result.PrintFileURL)
	assert.Equal(t, "GOO-1", result.Response["Id"])
}

func TestFulfillPrinterFailure(t *testing.T) {
	srv := imageServer(t)
	defer srv.Close()

	designs := new(MockDesignRepository)
	fs := new(MockFileStorage)
	printer := new(MockPrintSubmitter)
	designs.On("GetByID", 12).Return(&model.Design{ID: 12, ImageURL: srv.URL + "/d.png"}, nil)
	fs.On("UploadBytes", mock.Anything, mock.Anything, mock.Anything, "image/png").Return("https://cdn.example.com/print.png", nil)
	printer.On("SubmitOrder", mock.Anything, mock.Anything).Return(nil, stderrors.New("HTTP 400"))

	input := fulfillmentInput()
	input.SKU = "PhoneCase-iPhone-15"
	_, err := NewFulfillmentService(designs, fs, printer, srv.Client()).Fulfill(context.Background(), input)
	assert.True(t, errors.Is(err, errors.ErrExternalService))
}

func TestFulfillNeedsSKU(t *testing.T) {
	designs := new(MockDesignRepository)
	designs.On("GetByID", 12).Return(&model.Design{ID: 12, SKU: model.DefaultSKU}, nil)

	_, err := NewFulfillmentService(designs, nil, nil, http.DefaultClient).Fulfill(context.Background(), fulfillmentInput())
	assert.True(t, errors.Is(err, errors.ErrValidation))
}
