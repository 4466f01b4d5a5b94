package testutil

import (
	"fmt"

	"scad/pkg/domain"
)

// Addresses are fixed, checksum-valid identities for tests.
var Addresses = struct {
	Alice domain.Address
	Bob   domain.Address
	Carol domain.Address
	Dave  domain.Address
}{
	Alice: domain.MustParseAddress("0x5aaeb6053f3e94c9b9a09f33669435e7ef1beaed"),
	Bob:   domain.MustParseAddress("0xfb6916095ca1df60bb79ce92ce3ea74c37c5d359"),
	Carol: domain.MustParseAddress("0xdbf03b407c01e7cd3cbea99509d93f8dddc8c6fb"),
	Dave:  domain.MustParseAddress("0xd1220a0cf47c7b9be7a2e6ba89f429762e7b9adb"),
}

// Identifiers are well-formed digit strings. Their check digits are not meaningful.
const (
	PersonIdentifier       = "12345678901"
	OrganizationIdentifier = "12345678000195"
)

// AddressN derives a distinct, deterministic address for index n.
func AddressN(n int) domain.Address {
	return domain.MustParseAddress(fmt.Sprintf("0x%040x", n+1))
}
