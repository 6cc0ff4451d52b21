package calendar

import (
	"time"

	"github.com/wonny/tailpick/backend/internal/contracts"
)

func d(year int, month time.Month, day int) time.Time {
	return contracts.Date(year, month, day)
}

// chinaMainlandHolidays is the curated exchange holiday table for
// 2023-2025. Weekend entries are kept as published so make-up working
// weekends stay auditable against the official notices.
var chinaMainlandHolidays = []time.Time{
	// New Year's Day
	d(2022, time.December, 31),
	d(2023, time.January, 1),
	d(2023, time.January, 2),

	// Chinese New Year
	d(2023, time.January, 21),
	d(2023, time.January, 22),
	d(2023, time.January, 23),
	d(2023, time.January, 24),
	d(2023, time.January, 25),
	d(2023, time.January, 26),
	d(2023, time.January, 27),
	d(2023, time.January, 28),
	d(2023, time.January, 29),

	// Qingming Festival
	d(2023, time.April, 5),

	// Labor Day
	d(2023, time.April, 23),
	d(2023, time.April, 29),
	d(2023, time.April, 30),
	d(2023, time.May, 1),
	d(2023, time.May, 2),
	d(2023, time.May, 3),
	d(2023, time.May, 6),

	// Dragon Boat Festival
	d(2023, time.June, 22),
	d(2023, time.June, 23),

	// National Day and Mid-Autumn Festival
	d(2023, time.September, 29),
	d(2023, time.September, 30),
	d(2023, time.October, 1),
	d(2023, time.October, 2),
	d(2023, time.October, 3),
	d(2023, time.October, 4),
	d(2023, time.October, 5),
	d(2023, time.October, 6),
	d(2023, time.October, 7),
	d(2023, time.October, 8),

	// New Year's Day
	d(2023, time.December, 31),
	d(2024, time.January, 1),

	// Chinese New Year
	d(2024, time.February, 4),
	d(2024, time.February, 9),
	d(2024, time.February, 10),
	d(2024, time.February, 11),
	d(2024, time.February, 12),
	d(2024, time.February, 13),
	d(2024, time.February, 14),
	d(2024, time.February, 15),
	d(2024, time.February, 16),
	d(2024, time.February, 17),
	d(2024, time.February, 18),

	// Qingming Festival
	d(2024, time.April, 4),
	d(2024, time.April, 5),
	d(2024, time.April, 6),
	d(2024, time.April, 7),

	// Labor Day
	d(2024, time.April, 28),
	d(2024, time.May, 1),
	d(2024, time.May, 2),
	d(2024, time.May, 3),
	d(2024, time.May, 4),
	d(2024, time.May, 5),
	d(2024, time.May, 11),

	// Dragon Boat Festival
	d(2024, time.June, 10),

	// Mid-Autumn Festival
	d(2024, time.September, 14),
	d(2024, time.September, 15),
	d(2024, time.September, 17),

	// National Day
	d(2024, time.September, 29),
	d(2024, time.October, 1),
	d(2024, time.October, 2),
	d(2024, time.October, 3),
	d(2024, time.October, 4),
	d(2024, time.October, 5),
	d(2024, time.October, 6),
	d(2024, time.October, 7),
	d(2024, time.October, 12),

	// New Year's Day
	d(2025, time.January, 1),

	// Chinese New Year
	d(2025, time.January, 26),
	d(2025, time.January, 28),
	d(2025, time.January, 29),
	d(2025, time.January, 30),
	d(2025, time.January, 31),
	d(2025, time.February, 1),
	d(2025, time.February, 2),
	d(2025, time.February, 3),
	d(2025, time.February, 4),
	d(2025, time.February, 8),

	// Qingming Festival
	d(2025, time.April, 4),
	d(2025, time.April, 5),
	d(2025, time.April, 6),

	// Labor Day
	d(2025, time.April, 27),
	d(2025, time.May, 1),
	d(2025, time.May, 2),
	d(2025, time.May, 3),
	d(2025, time.May, 4),
	d(2025, time.May, 5),

	// Dragon Boat Festival
	d(2025, time.May, 31),
	d(2025, time.June, 1),
	d(2025, time.June, 2),

	// National Day and Mid-Autumn Festival
	d(2025, time.September, 28),
	d(2025, time.October, 1),
	d(2025, time.October, 2),
	d(2025, time.October, 3),
	d(2025, time.October, 4),
	d(2025, time.October, 5),
	d(2025, time.October, 6),
	d(2025, time.October, 7),
	d(2025, time.October, 8),
	d(2025, time.October, 11),
}
