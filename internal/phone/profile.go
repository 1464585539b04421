package phone

import "regexp"

// Profile describes one supported country numbering plan.
type Profile struct {
	ID          string // ISO 3166-1 alpha-2
	Name        string
	CallingCode string // with leading "+"
	TrunkPrefix string // dropped when converting a national number
	National    *regexp.Regexp
	Subscriber  *regexp.Regexp
	Groups      []int // display grouping of the subscriber digits
	Example     string
}

// DefaultProfiles returns the compiled-in country profiles in detection order.
// Burkina Faso is declared before Mali so ambiguous national numbers resolve to BF.
func DefaultProfiles() []Profile {
	return []Profile{
		{
			ID:          "FR",
			Name:        "France",
			CallingCode: "+33",
			TrunkPrefix: "0",
			National:    regexp.MustCompile(`^0[1-9]\d{8}$`),
			Subscriber:  regexp.MustCompile(`^[1-9]\d{8}$`),
			Groups:      []int{1, 2, 2, 2, 2},
			Example:     "06 12 34 56 78",
		},
		{
			ID:          "BF",
			Name:        "Burkina Faso",
			CallingCode: "+226",
			National:    regexp.MustCompile(`^[2567]\d{7}$`),
			Subscriber:  regexp.MustCompile(`^[2567]\d{7}$`),
			Groups:      []int{2, 2, 2, 2},
			Example:     "70 12 34 56",
		},
		{
			ID:          "SN",
			Name:        "Senegal",
			CallingCode: "+221",
			National:    regexp.MustCompile(`^(?:7[05678]|3[03])\d{7}$`),
			Subscriber:  regexp.MustCompile(`^(?:7[05678]|3[03])\d{7}$`),
			Groups:      []int{2, 3, 2, 2},
			Example:     "77 123 45 67",
		},
		{
			ID:          "CI",
			Name:        "Côte d'Ivoire",
			CallingCode: "+225",
			National:    regexp.MustCompile(`^(?:01|05|07|21|25|27)\d{8}$`),
			Subscriber:  regexp.MustCompile(`^(?:01|05|07|21|25|27)\d{8}$`),
			Groups:      []int{2, 2, 2, 2, 2},
			Example:     "07 12 34 56 78",
		},
		{
			ID:          "ML",
			Name:        "Mali",
			CallingCode: "+223",
			National:    regexp.MustCompile(`^[2-9]\d{7}$`),
			Subscriber:  regexp.MustCompile(`^[2-9]\d{7}$`),
			Groups:      []int{2, 2, 2, 2},
			Example:     "76 12 34 56",
		},
	}
}

// ToInternational converts number to international form for p.
// Numbers already starting with "+" are returned unchanged.
func ToInternational(p Profile, number string) string {
	if len(number) > 0 && number[0] == '+' {
		return number
	}
	if p.TrunkPrefix != "" && len(number) > len(p.TrunkPrefix) && number[:len(p.TrunkPrefix)] == p.TrunkPrefix {
		number = number[len(p.TrunkPrefix):]
	}
	return p.CallingCode + number
}

// Format renders an international number as the calling code followed by the
// grouped subscriber digits, e.g. "+33 6 12 34 56 78".
// Digits not covered by p.Groups are appended as a final group.
func Format(p Profile, international string) string {
	sub := international
	if len(sub) >= len(p.CallingCode) && sub[:len(p.CallingCode)] == p.CallingCode {
		sub = sub[len(p.CallingCode):]
	}
	out := make([]byte, 0, len(p.CallingCode)+len(sub)+len(p.Groups)+1)
	out = append(out, p.CallingCode...)
	i := 0
	for _, g := range p.Groups {
		if i >= len(sub) {
			break
		}
		end := i + g
		if end > len(sub) {
			end = len(sub)
		}
		out = append(out, ' ')
		out = append(out, sub[i:end]...)
		i = end
	}
	if i < len(sub) {
		out = append(out, ' ')
		out = append(out, sub[i:]...)
	}
	return string(out)
}
