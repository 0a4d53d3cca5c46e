// Copyright (c) 2026 Coursedesk. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package editor

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/taibuivan/coursedesk/internal/course"
)

// ErrInvalidNumber is wrapped by every numeric form parsing failure.
var ErrInvalidNumber = errors.New("invalid number")

// ParsePrice parses a non-negative price of at most [course.MaxPrice] in whole cents.
func ParsePrice(input string) (float64, error) {
	value, err := parseNonNegative("price", input)
	if err != nil {
		return 0, err
	}
	if value > course.MaxPrice {
		return 0, fmt.Errorf("%w: price must be at most %.2f", ErrInvalidNumber, course.MaxPrice)
	}
	if !course.HasCentPrecision(value) {
		return 0, fmt.Errorf("%w: price %q has more than 2 decimal places", ErrInvalidNumber, input)
	}
	return value, nil
}

// ParseDuration parses a non-negative, finite lecture duration in minutes.
func ParseDuration(input string) (float64, error) {
	return parseNonNegative("duration", input)
}

// ParseDiscount parses a whole percentage between 0 and 100.
func ParseDiscount(input string) (int, error) {
	trimmed := strings.TrimSpace(input)

	value, err := strconv.Atoi(trimmed)
	if err != nil {
		return 0, fmt.Errorf("%w: discount %q is not a whole number", ErrInvalidNumber, input)
	}
	if value < 0 || value > 100 {
		return 0, fmt.Errorf("%w: discount %d is outside 0..100", ErrInvalidNumber, value)
	}
	return value, nil
}

func parseNonNegative(field, input string) (float64, error) {
	trimmed := strings.TrimSpace(input)

	value, err := strconv.ParseFloat(trimmed, 64)
	if err != nil || math.IsNaN(value) || math.IsInf(value, 0) {
		return 0, fmt.Errorf("%w: %s %q is not a number", ErrInvalidNumber, field, input)
	}
	if value < 0 {
		return 0, fmt.Errorf("%w: %s must not be negative", ErrInvalidNumber, field)
	}
	return value, nil
}
