package model

import "time"

type ItemKind string

const (
	ItemKindArtwork          ItemKind = "artwork"
	ItemKindExhibitionTicket ItemKind = "exhibition_ticket"
)

// CartLineはカートの1明細。
// 価格・タイトル・画像は追加時点のスナップショットで、以後再取得しない。
type CartLine struct {
	ID        string    `json:"id"`
	Kind      ItemKind  `json:"kind"`
	UnitPrice int64     `json:"unit_price"`
	Title     string    `json:"title"`
	ImageRef  string    `json:"image_ref"`
	Quantity  int64     `json:"quantity"`
	AddedAt   time.Time `json:"added_at"`
}

// Cartはセッションごとの集約。(ID, Kind)の組で明細は1つまで。
// TotalAmountは導出値。Linesを触ったら必ずRecomputeする。
type Cart struct {
	Lines       []CartLine `json:"lines"`
	TotalAmount int64      `json:"total_amount"`
}

// TotalAmountをLinesから計算し直す
func (c *Cart) Recompute() {
	var total int64 = 0
	for _, ln := range c.Lines {
		total += ln.UnitPrice * ln.Quantity
	}
	c.TotalAmount = total
}

// (id, kind)の明細の添字を返す。無ければ-1。
func (c *Cart) IndexOf(id string, kind ItemKind) int {
	for i, ln := range c.Lines {
		if ln.ID == id && ln.Kind == kind {
			return i
		}
	}
	return -1
}

// idだけでmembershipを判定（一覧画面の「Added」表示用）
func (c *Cart) Contains(id string) bool {
	for _, ln := range c.Lines {
		if ln.ID == id {
			return true
		}
	}
	return false
}

// idに一致する明細を削除。kindは見ない。
func (c *Cart) RemoveLine(id string) {
	kept := c.Lines[:0]
	for _, ln := range c.Lines {
		if ln.ID != id {
			kept = append(kept, ln)
		}
	}
	c.Lines = kept
}

func (c *Cart) IsEmpty() bool {
	return len(c.Lines) == 0
}
