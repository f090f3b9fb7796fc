package utils

const ShortDashDateLayout = "2006-01-02"

const USDCurrencyCode = "USD"
