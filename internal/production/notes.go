package production

import (
	"encoding/json"
	"log"
	"time"
)

// Notlar blob şema versiyonu. Eski kayıtlarda alan hiç yok (0 olarak çözülür).
const notesSchemaVersion = 1

// Tarama geçmişinde tutulan en fazla kayıt sayısı; eskiler FIFO atılır.
const maxScanHistory = 50

// NotesState - Üretim kaydının notlar kolonunda JSON olarak saklanan
// yapısal durum: tarama geçmişi, QR atamaları ve varyantlar.
type NotesState struct {
	Version     int                     `json:"version,omitempty"`
	ScanHistory []ScanEntry             `json:"scanHistory,omitempty"`
	QRCodes     map[string]QRAssignment `json:"qrCodes,omitempty"`
	Variants    []Variant               `json:"variants,omitempty"`
}

// ScanEntry - Tek bir QR/barkod tarama olayı.
type ScanEntry struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	Code      string    `json:"code"`
	Stage     string    `json:"stage"`
	Operator  string    `json:"operator"`
	Variant   *Variant  `json:"variant,omitempty"`
}

// QRAssignment - Bir varyanta atanmış QR kod.
type QRAssignment struct {
	QRCode     string    `json:"qrCode"`
	Quantity   int       `json:"quantity"`
	AssignedAt time.Time `json:"assignedAt"`
	Stage      string    `json:"stage"`
}

// Variant - Model/renk/beden/miktar kombinasyonu.
type Variant struct {
	ID       string `json:"id"`
	Model    string `json:"model"`
	Color    string `json:"color"`
	Size     string `json:"size"`
	Quantity int    `json:"quantity"`
}

// DecodeNotes notlar kolonunu çözer. Boş veya bozuk blob'lar güncellemeyi
// engellememeli: hata loglanır ve boş durum döndürülür.
func DecodeNotes(raw string) NotesState {
	var state NotesState
	if raw == "" {
		return state
	}
	if err := json.Unmarshal([]byte(raw), &state); err != nil {
		log.Printf("Notlar çözülemedi, boş durumla devam ediliyor: %v", err)
		return NotesState{}
	}
	return state
}

// EncodeNotes durumu kanonik JSON'a çevirir. Kolon her zaman bütün
// olarak yazılır (alan bazlı patch yok).
func EncodeNotes(state NotesState) (string, error) {
	state.Version = notesSchemaVersion
	b, err := json.Marshal(state)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
