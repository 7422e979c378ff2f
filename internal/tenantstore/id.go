package tenantstore

import "strconv"

func formatID(prefix string, n int64) string {
	return prefix + "-" + strconv.FormatInt(n, 10)
}
