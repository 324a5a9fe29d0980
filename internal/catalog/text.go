package catalog

import (
	"bytes"
	"encoding/json"
)

const (
	LangRU = "ru"
	LangKY = "ky"
	LangEN = "en"

	MissingText = "Без названия"
)

type Translations struct {
	RU string `json:"ru,omitempty"`
	KY string `json:"ky,omitempty"`
	EN string `json:"en,omitempty"`
}

func (t Translations) get(lang string) string {
	switch lang {
	case LangRU:
		return t.RU
	case LangKY:
		return t.KY
	case LangEN:
		return t.EN
	}
	return ""
}

// LocalizedText is either a plain string or a per-language record.
type LocalizedText struct {
	Plain        string
	Translations *Translations
}

func Text(s string) LocalizedText {
	return LocalizedText{Plain: s}
}

func Translated(t Translations) LocalizedText {
	return LocalizedText{Translations: &t}
}

// Resolve returns the text for lang, falling back ru, en, ky, then MissingText.
func (t LocalizedText) Resolve(lang string) string {
	if t.Translations == nil {
		if t.Plain != "" {
			return t.Plain
		}
		return MissingText
	}

	for _, l := range []string{lang, LangRU, LangEN, LangKY} {
		if s := t.Translations.get(l); s != "" {
			return s
		}
	}
	return MissingText
}

func (t *LocalizedText) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	*t = LocalizedText{}

	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}

	if data[0] == '"' {
		return json.Unmarshal(data, &t.Plain)
	}

	var tr Translations
	if err := json.Unmarshal(data, &tr); err != nil {
		return err
	}
	t.Translations = &tr
	return nil
}

func (t LocalizedText) MarshalJSON() ([]byte, error) {
	if t.Translations != nil {
		return json.Marshal(t.Translations)
	}
	return json.Marshal(t.Plain)
}
