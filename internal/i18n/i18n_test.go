package i18n

import "testing"

func TestStrings(t *testing.T) {
	if got := Strings(RU)["my_works"]; got != "Работы" {
		t.Errorf("Strings(RU)[my_works] = %q", got)
	}
	if got := Strings(EN)["my_works"]; got != "Works" {
		t.Errorf("Strings(EN)[my_works] = %q", got)
	}
}

func TestUnknownLanguageFallsBackToRussian(t *testing.T) {
	if got := Strings(Lang("de"))["my_works"]; got != "Работы" {
		t.Errorf("Strings(de)[my_works] = %q, want Russian fallback", got)
	}
}

func TestCatalogsCoverSameKeys(t *testing.T) {
	for key := range ru {
		if _, ok := en[key]; !ok {
			t.Errorf("key %q missing from the English catalog", key)
		}
	}
	for key := range en {
		if _, ok := ru[key]; !ok {
			t.Errorf("key %q missing from the Russian catalog", key)
		}
	}
}
