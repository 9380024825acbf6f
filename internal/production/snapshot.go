package production

import (
	"bytes"
	"fmt"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/Simplici0/candle.works/internal/costing"
)

// EncodePlan serializes the plan computed when an order was placed.
func EncodePlan(plan costing.BatchPlan) ([]byte, error) {
	var buf bytes.Buffer
	enc := msgpack.NewEncoder(&buf)
	enc.SetCustomStructTag("json")
	if err := enc.Encode(plan); err != nil {
		return nil, fmt.Errorf("encode plan snapshot: %w", err)
	}
	return buf.Bytes(), nil
}

// DecodePlan reverses EncodePlan.
func DecodePlan(data []byte) (costing.BatchPlan, error) {
	var plan costing.BatchPlan
	dec := msgpack.NewDecoder(bytes.NewReader(data))
	dec.SetCustomStructTag("json")
	if err := dec.Decode(&plan); err != nil {
		return costing.BatchPlan{}, fmt.Errorf("decode plan snapshot: %w", err)
	}
	return plan, nil
}
