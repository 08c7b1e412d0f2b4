package enum

import "encoding/json"

// PaymentType is the payment method recorded on a sale.
type PaymentType string

const (
	PaymentTypeCash PaymentType = "cash"
	PaymentTypeCard PaymentType = "card"
)

func (t PaymentType) String() string {
	return string(t)
}

// Valid reports whether the value is one the store API accepts.
func (t PaymentType) Valid() bool {
	return t == PaymentTypeCash || t == PaymentTypeCard
}

func (t PaymentType) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(t))
}

func (t *PaymentType) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	*t = PaymentType(str)
	return nil
}
