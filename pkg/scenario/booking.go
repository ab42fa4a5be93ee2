package scenario

import (
	"fmt"

	"github.com/aretw0/cascade/pkg/domain"
)

// Entity names of the flight booking flow.
const (
	FlightBooking    = "Flight Booking"
	SearchFlights    = "Search Flights"
	SelectFlight     = "Select Flight"
	ChooseAuth       = "Choose Authentication"
	PassengerDetails = "Enter Passenger Details"
	AddExtras        = "Add Extras"
	ProcessPayment   = "Process Payment"
	FinalizeBooking  = "Finalize Booking"
)

// Variant is one combination of user type and payment outcome.
type Variant struct {
	User    domain.Status
	Payment domain.Status
}

func (v Variant) String() string {
	return fmt.Sprintf("%s Booking as %s", v.Payment, v.User)
}

// Variants lists every user type and payment outcome combination of the booking flow.
func Variants() []Variant {
	return []Variant{
		{User: domain.StatusGuestUser, Payment: domain.StatusSuccessful},
		{User: domain.StatusGuestUser, Payment: domain.StatusFailed},
		{User: domain.StatusRegisteredUser, Payment: domain.StatusSuccessful},
		{User: domain.StatusRegisteredUser, Payment: domain.StatusFailed},
	}
}

// Booking returns the four-stage flight booking flow:
// search, select, authentication, then passenger details and extras in parallel,
// payment once both are done, finalization, and finally the workflow outcome.
// The scripted steps choose the given user type and payment outcome.
func Booking(user, payment domain.Status) *Scenario {
	v := Variant{User: user, Payment: payment}
	return &Scenario{
		Name:        "flight-booking",
		Description: v.String(),
		Entities: []EntitySpec{
			{Name: FlightBooking, Role: domain.RoleWorkflow},
			{Name: SearchFlights, Role: domain.RoleTask},
			{Name: SelectFlight, Role: domain.RoleTask},
			{Name: ChooseAuth, Role: domain.RoleTask},
			{Name: PassengerDetails, Role: domain.RoleTask},
			{Name: AddExtras, Role: domain.RoleTask},
			{Name: ProcessPayment, Role: domain.RoleTask},
			{Name: FinalizeBooking, Role: domain.RoleTask},
		},
		Rules: []RuleSpec{
			{When: FlightBooking, Is: domain.StatusInProgress, Set: SearchFlights, To: domain.StatusInProgress},
			{When: SearchFlights, Is: domain.StatusCompleted, Set: SelectFlight, To: domain.StatusInProgress},
			{When: SelectFlight, Is: domain.StatusCompleted, Set: ChooseAuth, To: domain.StatusInProgress},

			{When: ChooseAuth, Is: domain.StatusGuestUser, Set: PassengerDetails, To: domain.StatusInProgress},
			{When: ChooseAuth, Is: domain.StatusGuestUser, Set: AddExtras, To: domain.StatusInProgress},
			{When: ChooseAuth, Is: domain.StatusRegisteredUser, Set: PassengerDetails, To: domain.StatusInProgress},
			{When: ChooseAuth, Is: domain.StatusRegisteredUser, Set: AddExtras, To: domain.StatusInProgress},

			{WhenAll: []string{PassengerDetails, AddExtras}, Are: domain.StatusCompleted, Set: ProcessPayment, To: domain.StatusInProgress},

			{When: ProcessPayment, Is: domain.StatusSuccessful, Set: FinalizeBooking, To: domain.StatusSuccessful},
			{When: ProcessPayment, Is: domain.StatusFailed, Set: FinalizeBooking, To: domain.StatusFailed},

			{When: FinalizeBooking, Is: domain.StatusSuccessful, Set: FlightBooking, To: domain.StatusCompleted},
			{When: FinalizeBooking, Is: domain.StatusFailed, Set: FlightBooking, To: domain.StatusFailed},
		},
		Steps: []Step{
			{Entity: FlightBooking, State: domain.StatusInProgress, Note: "User starts the booking process."},
			{Entity: SearchFlights, State: domain.StatusCompleted, Note: "User completes the 'Search Flights' task."},
			{Entity: SelectFlight, State: domain.StatusCompleted, Note: "User completes the 'Select Flight' task."},
			{Entity: ChooseAuth, State: user, Note: fmt.Sprintf("User chooses to continue as a %s.", user)},
			{Entity: PassengerDetails, State: domain.StatusCompleted, Note: "User completes the 'Enter Passenger Details' task."},
			{Entity: AddExtras, State: domain.StatusCompleted, Note: "User completes the 'Add Extras' task."},
			{Entity: ProcessPayment, State: payment, Note: fmt.Sprintf("User's payment is %s.", payment)},
		},
	}
}
