package record

import "fmt"

const (
	NoName       = "no name"
	NoCategory   = "no category"
	NoAddress    = "no address"
	NoPostalCode = "no zipcode"
	NoPhone      = "no phone"
)

// LocationView is a Location with every absent field replaced by its sentinel.
type LocationView struct {
	Category   string
	Name       string
	Address    string
	PostalCode string
	Phone      string
}

type PlaceView struct {
	Name     string
	Category string
	Address  string
}

// Or returns *value, or sentinel when value is nil.
func Or(value *string, sentinel string) string {
	if value == nil {
		return sentinel
	}
	return *value
}

func (l Location) Display() LocationView {
	return LocationView{
		Category:   Or(l.Category, NoCategory),
		Name:       Or(l.Name, NoName),
		Address:    Or(l.Address, NoAddress),
		PostalCode: Or(l.PostalCode, NoPostalCode),
		Phone:      Or(l.Phone, NoPhone),
	}
}

// Info formats a location the way listings print it.
func (l Location) Info() string {
	v := l.Display()
	return fmt.Sprintf("%s (%s): %s %s", v.Name, v.Category, v.Address, v.PostalCode)
}

func (p NearbyPlace) Display() PlaceView {
	return PlaceView{
		Name:     Or(p.Name, NoName),
		Category: Or(p.Category, NoCategory),
		Address:  Or(JoinAddress(p.City, p.Region), NoAddress),
	}
}

func (p NearbyPlace) Info() string {
	v := p.Display()
	return fmt.Sprintf("%s (%s): %s", v.Name, v.Category, v.Address)
}
