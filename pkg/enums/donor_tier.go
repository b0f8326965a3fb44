package enums

import "fmt"

// DonorTier ranks donors for display grouping.
type DonorTier string

const (
	DonorTierPlatinum DonorTier = "Platinum"
	DonorTierGold     DonorTier = "Gold"
	DonorTierSilver   DonorTier = "Silver"
	DonorTierBronze   DonorTier = "Bronze"
)

var validDonorTiers = []DonorTier{
	DonorTierPlatinum,
	DonorTierGold,
	DonorTierSilver,
	DonorTierBronze,
}

func (t DonorTier) String() string {
	return string(t)
}

func (t DonorTier) IsValid() bool {
	for _, candidate := range validDonorTiers {
		if t == candidate {
			return true
		}
	}
	return false
}

// ParseDonorTier validates the raw tier value from a request.
func ParseDonorTier(raw string) (DonorTier, error) {
	tier := DonorTier(raw)
	if !tier.IsValid() {
		return "", fmt.Errorf("invalid donor tier %q", raw)
	}
	return tier, nil
}
