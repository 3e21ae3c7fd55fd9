package dto

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/rafaelleal24/stockledger/internal/core/domain"
	"github.com/rafaelleal24/stockledger/internal/core/serviceerrors"
)

type RecordTransactionRequest struct {
	ProductID domain.ID              `json:"productId" swaggertype:"string"`
	Type      domain.TransactionType `json:"type"`
	Quantity  int                    `json:"quantity"`
}

// UnmarshalJSON accepts productId as a string or as the bare number older clients send.
func (r *RecordTransactionRequest) UnmarshalJSON(data []byte) error {
	type plain RecordTransactionRequest
	aux := struct {
		*plain
		ProductID json.RawMessage `json:"productId"`
	}{plain: (*plain)(r)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	id, err := DecodeID(aux.ProductID)
	if err != nil {
		return fmt.Errorf("productId: %w", err)
	}
	r.ProductID = id
	return nil
}

func (r *RecordTransactionRequest) Validate() error {
	var fields []string
	if r.ProductID == "" {
		fields = append(fields, "productId")
	}
	if !r.Type.IsMovement() {
		fields = append(fields, "type")
	}
	if r.Quantity <= 0 || r.Quantity > domain.MaxQuantity {
		fields = append(fields, "quantity")
	}
	if len(fields) > 0 {
		return serviceerrors.NewValidationError(fields...)
	}
	return nil
}

// DecodeID reads a product id written as a JSON string or number. A missing or null
// value decodes to the empty id.
func DecodeID(data []byte) (domain.ID, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return "", nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return "", err
		}
		return domain.ID(s), nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return "", fmt.Errorf("id must be a string or a number: %w", err)
	}
	return domain.ID(n.String()), nil
}
