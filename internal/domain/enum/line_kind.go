package enum

import "encoding/json"

// LineKind classifies a cart line. Goods lines are backed by stock and subject
// to the stock ceiling; discount and service lines are free-form.
type LineKind string

const (
	LineKindGoods    LineKind = "goods"
	LineKindDiscount LineKind = "discount"
	LineKindService  LineKind = "service"
)

func (k LineKind) String() string {
	return string(k)
}

func (k LineKind) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(k))
}

func (k *LineKind) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	*k = LineKind(str)
	return nil
}
