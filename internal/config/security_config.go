// config/security_config.go
package config

type SecurityLevel int

const (
	SecurityPublic  SecurityLevel = iota // No authentication
	SecurityService                      // Service token or admin token required
	SecurityAdmin                        // Admin token holding the admin role required
)

// EmailFunctionMethod is the full gRPC method name of the remote email function
const EmailFunctionMethod = "/eventrent.email.v1.BookingEmailFunction/Send"

// EndpointSecurityConfig maps gRPC methods and named HTTP routes to their required security level
var EndpointSecurityConfig = map[string]SecurityLevel{
	// Remote email function
	EmailFunctionMethod:            SecurityService,
	"functions.send-booking-email": SecurityService,

	// Storefront - Public
	"healthz":        SecurityPublic,
	"catalog.list":   SecurityPublic,
	"catalog.get":    SecurityPublic,
	"catalog.quote":  SecurityPublic,
	"cart.get":       SecurityPublic,
	"cart.add":       SecurityPublic,
	"cart.update":    SecurityPublic,
	"cart.remove":    SecurityPublic,
	"cart.clear":     SecurityPublic,
	"checkout":       SecurityPublic,
	"checkout.print": SecurityPublic,
	"media":          SecurityPublic,

	// Admin auth - Public
	"admin.signup": SecurityPublic,
	"admin.signin": SecurityPublic,

	// Admin console - Admin Protected
	"admin.signout":          SecurityAdmin,
	"admin.dashboard":        SecurityAdmin,
	"admin.items.list":       SecurityAdmin,
	"admin.items.create":     SecurityAdmin,
	"admin.items.update":     SecurityAdmin,
	"admin.items.delete":     SecurityAdmin,
	"admin.items.image":      SecurityAdmin,
	"admin.bookings.list":    SecurityAdmin,
	"admin.bookings.get":     SecurityAdmin,
	"admin.bookings.approve": SecurityAdmin,
	"admin.bookings.reject":  SecurityAdmin,
	"admin.bookings.done":    SecurityAdmin,
	"admin.bookings.emails":  SecurityAdmin,
	"admin.roles.grant":      SecurityAdmin,
}

// GetSecurityLevel returns the security level for a given method or route
func GetSecurityLevel(method string) SecurityLevel {
	if level, exists := EndpointSecurityConfig[method]; exists {
		return level
	}
	// Default to highest security for unknown endpoints
	return SecurityAdmin
}
