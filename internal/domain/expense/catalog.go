package expense

// TypeOptions are the expense categories offered by the type picker.
var TypeOptions = []string{
	"Food",
	"Home/Groceries",
	"Health/Medical",
	"Personal",
	"Parents",
	"Utilities",
	"Travel/Transport",
	"Gifts",
	"Donation",
	"Repayment",
}

// VendorPresets are the quick-pick vendors.
var VendorPresets = []string{
	"Vendor #1", "Vendor #2", "Vendor #3", "Vendor #4", "Vendor #5", "Vendor #6",
	"Vendor #7", "Vendor #8", "Vendor #9", "Vendor #10", "Vendor #11",
}

// LocationPresets are the quick-pick locations.
var LocationPresets = []string{
	"Location #1", "Location #2", "Location #3", "Location #4", "Location #5", "Location #6",
	"Location #7", "Location #8", "Location #9", "Location #10", "Location #11",
}

// Clearances lists the settable clearance values.
var Clearances = []Clearance{ClearanceYes, ClearancePartial, ClearanceNo, ClearanceRepayment}
