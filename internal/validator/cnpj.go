package validator

import (
	"regexp"
	"strings"
)

var nonDigit = regexp.MustCompile(`\D`)

// OnlyDigits strips masks such as "12.345.678/0001-95".
func OnlyDigits(s string) string {
	return nonDigit.ReplaceAllString(s, "")
}

// NormalizeCNPJ returns the 14-digit form, or "" when the length is wrong.
func NormalizeCNPJ(cnpj string) string {
	digits := OnlyDigits(cnpj)
	if len(digits) != 14 {
		return ""
	}
	return digits
}

// ValidCNPJ checks length, repeated digits and both check digits.
func ValidCNPJ(cnpj string) bool {
	digits := NormalizeCNPJ(cnpj)
	if digits == "" {
		return false
	}
	if strings.Count(digits, digits[:1]) == len(digits) {
		return false
	}

	weights1 := []int{5, 4, 3, 2, 9, 8, 7, 6, 5, 4, 3, 2}
	weights2 := []int{6, 5, 4, 3, 2, 9, 8, 7, 6, 5, 4, 3, 2}

	return checkDigit(digits[:12], weights1) == int(digits[12]-'0') &&
		checkDigit(digits[:13], weights2) == int(digits[13]-'0')
}

// ValidCPF checks length, repeated digits and both check digits.
func ValidCPF(cpf string) bool {
	digits := OnlyDigits(cpf)
	if len(digits) != 11 {
		return false
	}
	if strings.Count(digits, digits[:1]) == len(digits) {
		return false
	}

	weights1 := []int{10, 9, 8, 7, 6, 5, 4, 3, 2}
	weights2 := []int{11, 10, 9, 8, 7, 6, 5, 4, 3, 2}

	return checkDigit(digits[:9], weights1) == int(digits[9]-'0') &&
		checkDigit(digits[:10], weights2) == int(digits[10]-'0')
}

func checkDigit(digits string, weights []int) int {
	sum := 0
	for i, w := range weights {
		sum += int(digits[i]-'0') * w
	}
	rem := sum % 11
	if rem < 2 {
		return 0
	}
	return 11 - rem
}
