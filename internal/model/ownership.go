package model

const (
	ownerColumnClient     = "client_id"
	ownerColumnContractor = "contractor_id"
)

// Ownership scopes contract queries to the contracts a profile is party to.
type Ownership struct {
	Column    string
	ProfileID int64
}

func OwnershipFor(profileType ProfileType, profileID int64) Ownership {
	if profileType == ProfileTypeClient {
		return Ownership{Column: ownerColumnClient, ProfileID: profileID}
	}
	return Ownership{Column: ownerColumnContractor, ProfileID: profileID}
}

func OwnershipOf(p Profile) Ownership {
	return OwnershipFor(p.Type, p.ID)
}

func (o Ownership) Owns(c Contract) bool {
	if o.Column == ownerColumnClient {
		return c.ClientID == o.ProfileID
	}
	return c.ContractorID == o.ProfileID
}
