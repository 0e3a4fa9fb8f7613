package types

import "testing"

func TestClassifyIsTotal(t *testing.T) {
	for raw := uint(0); raw < FieldTypeCount; raw++ {
		general := Classify(FieldType(raw))
		if int(general) >= GeneralTypeCount {
			t.Errorf("field type %d classified outside the category set: %d", raw, general)
		}
	}
	// values past the enum still land in a category
	if Classify(FieldType(FieldTypeCount+100)) != GeneralText {
		t.Errorf("out of range field type should classify as text")
	}
}

func TestClassifyCategories(t *testing.T) {
	tests := []struct {
		fieldType FieldType
		expected  GeneralType
	}{
		{FieldBoolean, GeneralBoolean},
		{FieldInteger, GeneralNumber},
		{FieldFloat, GeneralNumber},
		{FieldDecimal, GeneralNumber},
		{FieldObject, GeneralObject},
		{FieldDateIso, GeneralDate},
		{FieldDateTimeEuroShortAmPm, GeneralDate},
		{FieldTime, GeneralDate},
		{FieldString, GeneralText},
		{FieldPassword, GeneralText},
		{FieldUnknown, GeneralText},
	}
	for _, tc := range tests {
		if got := Classify(tc.fieldType); got != tc.expected {
			t.Errorf("Classify(%s) = %d, expected %d", tc.fieldType, got, tc.expected)
		}
	}
}

func TestEveryDateTypeHasLayouts(t *testing.T) {
	for raw := uint(0); raw < FieldTypeCount; raw++ {
		ft := FieldType(raw)
		if Classify(ft) == GeneralDate && len(DateLayouts(ft)) == 0 {
			t.Errorf("date type %s has no layout chain", ft)
		}
	}
}

func TestParseDate(t *testing.T) {
	tests := []struct {
		value     string
		fieldType FieldType
		ok        bool
	}{
		{"2024-03-01", FieldDateIso, true},
		{"2024-03-01", FieldDateUs, false},
		{"03/01/2024", FieldDateUs, true},
		{"01/03/2024 14:30:00", FieldDateTimeEuro, true},
		{"2024-03-01T10:00:00Z", FieldDateUtc, true},
		{"not a date", FieldDate, false},
	}
	for _, tc := range tests {
		if _, ok := ParseDate(tc.value, tc.fieldType); ok != tc.ok {
			t.Errorf("ParseDate(%q, %s) ok = %v, expected %v", tc.value, tc.fieldType, ok, tc.ok)
		}
	}
}

func TestFieldTypeNameRoundTrip(t *testing.T) {
	for raw := uint(1); raw < FieldTypeCount; raw++ {
		ft := FieldType(raw)
		if parsed := ParseFieldType(ft.String()); parsed != ft {
			t.Errorf("ParseFieldType(%q) = %d, expected %d", ft.String(), parsed, ft)
		}
	}
	if ParseFieldType("no-such-type") != FieldUnknown {
		t.Errorf("unrecognized names should map to unknown")
	}
}
