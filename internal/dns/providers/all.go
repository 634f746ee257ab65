// Package providers imports all registrar packages to trigger their init() registration.
package providers

import (
	_ "github.com/yuriy-kovalchuk/yk-dynadot-updater/internal/dns/dynadot"
)
