package production

import (
	"errors"
	"fmt"
	"time"

	"corap-backend/internal/config"
	"corap-backend/internal/models"

	"github.com/google/uuid"
)

var (
	// ErrQRConflict - QR kod zaten başka bir varyanta bağlı.
	ErrQRConflict = errors.New("QR kod zaten başka bir varyanta atanmış")
	// ErrInvalidTransition - Durum geçişi politika tarafından reddedildi.
	ErrInvalidTransition = errors.New("geçersiz durum geçişi")
	// ErrStaleVersion - Eşzamanlı güncelleme yarışı; kayıt bu arada değişti.
	ErrStaleVersion = errors.New("kayıt başka bir istek tarafından güncellendi")
)

// Sıralı üretim aşamaları (ileri politikasında geriye dönüş yok).
var stageOrder = []string{
	models.DurumUretim,
	models.DurumBurunDikisi,
	models.DurumPaketleme,
	models.DurumTamamlandi,
}

func stageIndex(stage string) int {
	for i, s := range stageOrder {
		if s == stage {
			return i
		}
	}
	return -1
}

// UpdateRequest - PATCH isteğinin gövdesi. Tüm alanlar opsiyonel;
// sadece gönderilenler uygulanır.
type UpdateRequest struct {
	Durum        *string  `json:"durum"`
	Tamamlanma   *int     `json:"tamamlanma"`
	ScannedCode  string   `json:"scannedCode"`
	OperatorID   string   `json:"operatorId"`
	Variant      *Variant `json:"variant"`
	AssignQRCode bool     `json:"assignQrCode"`
	Quantity     *int     `json:"quantity"`
}

// Engine - Durum & tarama geçiş motoru. Bir güncelleme isteğini üretimin
// yeni notlar durumuna çevirir; QR ataması istendiğinde checker'a danışır.
type Engine struct {
	Policy  string // config.StatusPolicySerbest | config.StatusPolicyIleri
	Checker ConflictChecker
}

// Apply isteği uygular ve yeni NotesState'i döndürür. Çakışma veya
// politika ihlalinde hata döner ve hiçbir değişiklik kalıcı olmaz:
// tarama geçmişi eklemesi dahil her şey ya hep ya hiç.
func (e *Engine) Apply(p *models.Production, req UpdateRequest, now time.Time) (NotesState, error) {
	state := DecodeNotes(p.Notlar)
	if state.ScanHistory == nil {
		state.ScanHistory = []ScanEntry{}
	}

	if req.Durum != nil {
		if err := e.checkTransition(p.Durum, *req.Durum); err != nil {
			return NotesState{}, err
		}
	}

	// Tarama kaydı: durum alanı istekteki durumu yansıtır (gönderilmediyse mevcut)
	if req.ScannedCode != "" {
		stage := p.Durum
		if req.Durum != nil {
			stage = *req.Durum
		}
		operator := req.OperatorID
		if operator == "" {
			operator = "unknown"
		}
		entry := ScanEntry{
			ID:        uuid.NewString(),
			Timestamp: now,
			Code:      req.ScannedCode,
			Stage:     stage,
			Operator:  operator,
			Variant:   req.Variant,
		}
		state.ScanHistory = append(state.ScanHistory, entry)
		if len(state.ScanHistory) > maxScanHistory {
			state.ScanHistory = state.ScanHistory[len(state.ScanHistory)-maxScanHistory:]
		}
	}

	if req.AssignQRCode && req.Variant != nil && req.ScannedCode != "" {
		conflict, err := e.Checker.IsAssignedElsewhere(req.ScannedCode, p.ID, req.Variant.ID)
		if err != nil {
			return NotesState{}, err
		}
		if conflict {
			return NotesState{}, ErrQRConflict
		}

		if state.QRCodes == nil {
			state.QRCodes = map[string]QRAssignment{}
		}
		stage := p.Durum
		if req.Durum != nil {
			stage = *req.Durum
		}
		quantity := 0
		if req.Quantity != nil {
			quantity = *req.Quantity
		}
		state.QRCodes[req.Variant.ID] = QRAssignment{
			QRCode:     req.ScannedCode,
			Quantity:   quantity,
			AssignedAt: now,
			Stage:      stage,
		}

		state.Variants = upsertVariant(state.Variants, *req.Variant, req.Quantity)
	}

	return state, nil
}

// upsertVariant varyant listesini id'ye göre günceller veya ekler.
// Miktar önceliği: istekte açıkça verilen > mevcut kayıttaki > 0.
func upsertVariant(variants []Variant, v Variant, quantity *int) []Variant {
	for i, existing := range variants {
		if existing.ID != v.ID {
			continue
		}
		merged := v
		if quantity != nil {
			merged.Quantity = *quantity
		} else if existing.Quantity != 0 {
			merged.Quantity = existing.Quantity
		} else {
			merged.Quantity = 0
		}
		variants[i] = merged
		return variants
	}

	appended := v
	if quantity != nil {
		appended.Quantity = *quantity
	} else {
		appended.Quantity = 0
	}
	return append(variants, appended)
}

func (e *Engine) checkTransition(current, requested string) error {
	if e.Policy != config.StatusPolicyIleri {
		// serbest: istenen durum olduğu gibi yazılır
		return nil
	}

	to := stageIndex(requested)
	if to < 0 {
		return fmt.Errorf("%w: bilinmeyen durum %q", ErrInvalidTransition, requested)
	}
	from := stageIndex(current)
	if from >= 0 && to < from {
		return fmt.Errorf("%w: %q -> %q geriye gidiş", ErrInvalidTransition, current, requested)
	}
	return nil
}
