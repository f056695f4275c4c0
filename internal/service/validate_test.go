package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidPhone(t *testing.T) {
	tests := []struct {
		phone string
		want  bool
	}{
		{"+79991234567", true},
		{"89991234567", true},
		{"80000000000", true},
		{"+7999123456", false},   // девять цифр после префикса
		{"+799912345678", false}, // одиннадцать цифр
		{"79991234567", false},   // без признанного префикса
		{"+89991234567", false},  // смешанный префикс
		{"+7abcde12345", false},
		{"8999 123 45 67", false}, // разделители не допускаются
		{"+7 9991234567", false},
		{"", false},
		{"hello", false},
		{"x+79991234567", false}, // частичное совпадение отклоняется
		{"+79991234567x", false},
	}

	for _, tt := range tests {
		t.Run(tt.phone, func(t *testing.T) {
			assert.Equal(t, tt.want, ValidPhone(tt.phone))
		})
	}
}

func TestValidName(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"Анна", true},
		{"  Анна  ", true},
		{"A", true},
		{"Анна-Мария Петрова", true},
		{"", false},
		{"   ", false},
		{"\t\n", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ValidName(tt.name))
		})
	}
}
