package service

import (
	"regexp"
	"strings"
)

// Телефон РФ: +7XXXXXXXXXX или 8XXXXXXXXXX, ровно 10 цифр после префикса,
// без разделителей.
var phonePattern = regexp.MustCompile(`^(\+7|8)\d{10}$`)

// ValidName принимает любую непустую строку после обрезки пробелов.
func ValidName(name string) bool {
	return strings.TrimSpace(name) != ""
}

// ValidPhone проверяет полное совпадение с телефонной грамматикой.
func ValidPhone(phone string) bool {
	return phonePattern.MatchString(phone)
}
