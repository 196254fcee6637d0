package usecase

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"gallery/internal/domain/model"
	repo "gallery/internal/repository"
)

// CartUsecaseはセッション単位のカートの唯一の正。
// 変更のたびにスナップショットを書き戻し、TotalAmountを同期的に計算し直す。
//
// 同一セッションを複数タブで触った場合はlast-writer-winsで、
// タブ間の整合は保証しない（読み直すのは各タブの初期化時だけ）。
type CartUsecase struct {
	snapshots repo.CartSnapshotStore
	catalog   repo.CatalogRepository
	log       *slog.Logger
}

func NewCartUsecase(snapshots repo.CartSnapshotStore, catalog repo.CatalogRepository, log *slog.Logger) *CartUsecase {
	return &CartUsecase{
		snapshots: snapshots,
		catalog:   catalog,
		log:       log,
	}
}

type AddItemInput struct {
	Kind     model.ItemKind
	EntityID string
	Quantity int64
}

// カートを取得（スナップショットから復元）
func (u *CartUsecase) GetCart(ctx context.Context, sessionID string) (model.Cart, error) {
	if sessionID == "" {
		return model.Cart{}, NewHTTPError(http.StatusBadRequest, "invalid session")
	}
	return u.load(ctx, sessionID)
}

// カートに追加。同一(entity, kind)は数量加算で、明細は増やさない。
// Quantity < 1 は何もしない（エラーにもしない）。
func (u *CartUsecase) AddItem(ctx context.Context, sessionID string, in AddItemInput) (model.Cart, error) {
	if sessionID == "" {
		return model.Cart{}, NewHTTPError(http.StatusBadRequest, "invalid session")
	}
	if in.EntityID == "" {
		return model.Cart{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	if in.Kind != model.ItemKindArtwork && in.Kind != model.ItemKindExhibitionTicket {
		return model.Cart{}, NewHTTPError(http.StatusBadRequest, "invalid kind")
	}

	cart, err := u.load(ctx, sessionID)
	if err != nil {
		return model.Cart{}, err
	}

	// 増分が1未満はno-op
	if in.Quantity < 1 {
		return cart, nil
	}

	idx := cart.IndexOf(in.EntityID, in.Kind)

	var existingQty int64 = 0
	if idx >= 0 {
		existingQty = cart.Lines[idx].Quantity
	}
	newQty := existingQty + in.Quantity

	// 追加時点の価格・表示情報をカタログからスナップショットする
	var line model.CartLine
	switch in.Kind {
	case model.ItemKindArtwork:
		a, err := u.catalog.FindArtworkByID(ctx, in.EntityID)
		if err == repo.ErrNotFound {
			return model.Cart{}, NewHTTPError(http.StatusBadRequest, "invalid")
		}
		if err != nil {
			return model.Cart{}, NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if a.Status != model.ArtworkStatusAvailable {
			return model.Cart{}, NewHTTPError(http.StatusBadRequest, "not available")
		}
		line = model.CartLine{
			ID:        a.ID,
			Kind:      model.ItemKindArtwork,
			UnitPrice: a.Price,
			Title:     a.Title,
			ImageRef:  a.ImageURL,
		}

	case model.ItemKindExhibitionTicket:
		e, err := u.catalog.FindExhibitionByID(ctx, in.EntityID)
		if err == repo.ErrNotFound {
			return model.Cart{}, NewHTTPError(http.StatusBadRequest, "invalid")
		}
		if err != nil {
			return model.Cart{}, NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if newQty > e.AvailableSlots {
			return model.Cart{}, NewHTTPError(http.StatusBadRequest, "slots exceeded")
		}
		line = model.CartLine{
			ID:        e.ID,
			Kind:      model.ItemKindExhibitionTicket,
			UnitPrice: e.TicketPrice,
			Title:     e.Title,
			ImageRef:  e.ImageURL,
		}
	}

	if idx >= 0 {
		cart.Lines[idx].Quantity = newQty
	} else {
		line.Quantity = in.Quantity
		line.AddedAt = time.Now()
		cart.Lines = append(cart.Lines, line)
	}

	cart.Recompute()
	if err := u.save(ctx, sessionID, cart); err != nil {
		return model.Cart{}, err
	}
	return cart, nil
}

// idの明細を削除。kindは見ない。
func (u *CartUsecase) RemoveItem(ctx context.Context, sessionID string, itemID string) (model.Cart, error) {
	if sessionID == "" {
		return model.Cart{}, NewHTTPError(http.StatusBadRequest, "invalid session")
	}
	if itemID == "" {
		return model.Cart{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	cart, err := u.load(ctx, sessionID)
	if err != nil {
		return model.Cart{}, err
	}

	cart.RemoveLine(itemID)
	cart.Recompute()

	if err := u.save(ctx, sessionID, cart); err != nil {
		return model.Cart{}, err
	}
	return cart, nil
}

// 数量を上書き。1未満は削除と同じ。
// チケットは上書きでも追加時と同じ枠チェックを通す。
func (u *CartUsecase) SetQuantity(ctx context.Context, sessionID string, itemID string, qty int64) (model.Cart, error) {
	if qty < 1 {
		return u.RemoveItem(ctx, sessionID, itemID)
	}

	if sessionID == "" {
		return model.Cart{}, NewHTTPError(http.StatusBadRequest, "invalid session")
	}
	if itemID == "" {
		return model.Cart{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	cart, err := u.load(ctx, sessionID)
	if err != nil {
		return model.Cart{}, err
	}

	idx := -1
	for i := range cart.Lines {
		if cart.Lines[i].ID == itemID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return model.Cart{}, NewHTTPError(http.StatusNotFound, "not found")
	}

	if cart.Lines[idx].Kind == model.ItemKindExhibitionTicket {
		e, err := u.catalog.FindExhibitionByID(ctx, itemID)
		if err == repo.ErrNotFound {
			return model.Cart{}, NewHTTPError(http.StatusBadRequest, "invalid")
		}
		if err != nil {
			return model.Cart{}, NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if qty > e.AvailableSlots {
			return model.Cart{}, NewHTTPError(http.StatusBadRequest, "slots exceeded")
		}
	}

	cart.Lines[idx].Quantity = qty
	cart.Recompute()
	if err := u.save(ctx, sessionID, cart); err != nil {
		return model.Cart{}, err
	}
	return cart, nil
}

// カートを空にする（チェックアウト成功後・明示操作）
func (u *CartUsecase) Clear(ctx context.Context, sessionID string) (model.Cart, error) {
	if sessionID == "" {
		return model.Cart{}, NewHTTPError(http.StatusBadRequest, "invalid session")
	}

	empty := model.Cart{Lines: []model.CartLine{}, TotalAmount: 0}
	if err := u.save(ctx, sessionID, empty); err != nil {
		return model.Cart{}, err
	}
	return empty, nil
}

// 一覧画面の「Added」表示用
func (u *CartUsecase) Contains(ctx context.Context, sessionID string, itemID string) (bool, error) {
	cart, err := u.load(ctx, sessionID)
	if err != nil {
		return false, err
	}
	return cart.Contains(itemID), nil
}

// ログアウト時の後始末。スナップショット自体を消す。
func (u *CartUsecase) Destroy(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return NewHTTPError(http.StatusBadRequest, "invalid session")
	}
	if err := u.snapshots.Remove(ctx, sessionID); err != nil {
		return NewHTTPError(http.StatusInternalServerError, "store error")
	}
	return nil
}

// スナップショットから復元する。
// 壊れた値は捨てて空カートから始める（ユーザーにはエラーを見せない）。
func (u *CartUsecase) load(ctx context.Context, sessionID string) (model.Cart, error) {
	data, err := u.snapshots.Get(ctx, sessionID)
	if err == repo.ErrSnapshotNotFound {
		return model.Cart{Lines: []model.CartLine{}}, nil
	}
	if err != nil {
		return model.Cart{}, NewHTTPError(http.StatusInternalServerError, "store error")
	}

	var cart model.Cart
	if err := json.Unmarshal(data, &cart); err != nil {
		u.log.Warn("corrupt cart snapshot dropped", "session_id", sessionID, "error", err)
		_ = u.snapshots.Remove(ctx, sessionID)
		return model.Cart{Lines: []model.CartLine{}}, nil
	}

	if cart.Lines == nil {
		cart.Lines = []model.CartLine{}
	}
	return cart, nil
}

// スナップショットを書き戻す。全ての変更操作の最後に必ず呼ぶ。
func (u *CartUsecase) save(ctx context.Context, sessionID string, cart model.Cart) error {
	data, err := json.Marshal(cart)
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "encode error")
	}
	if err := u.snapshots.Set(ctx, sessionID, data); err != nil {
		return NewHTTPError(http.StatusInternalServerError, "store error")
	}
	return nil
}
