package routes_test

import (
	"context"
	"strconv"
)

func testContext() context.Context {
	return context.Background()
}

func uintString(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}
