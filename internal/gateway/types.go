package gateway

import (
	"github.com/WailSalutem-Health-Care/prescription-service/internal/pagination"
	"github.com/WailSalutem-Health-Care/prescription-service/internal/records"
)

const dateLayout = "2006-01-02"

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

type PatientResolver struct{ p records.Patient }

func (r *PatientResolver) PatientID() int32 { return int32(r.p.PatientID) }
func (r *PatientResolver) Name() string { return r.p.Name }
func (r *PatientResolver) Age() *int32 { return r.p.Age }
func (r *PatientResolver) Gender() *string { return optional(r.p.Gender) }
func (r *PatientResolver) Address() *string { return optional(r.p.Address) }
func (r *PatientResolver) ContactNumber() *string { return optional(r.p.ContactNumber) }

type DoctorResolver struct{ d records.Doctor }

func (r *DoctorResolver) DoctorID() int32 { return int32(r.d.DoctorID) }
func (r *DoctorResolver) Name() string { return r.d.Name }
func (r *DoctorResolver) Specialization() *string { return optional(r.d.Specialization) }
func (r *DoctorResolver) ContactNumber() *string { return optional(r.d.ContactNumber) }

type MedicineResolver struct{ m records.Medicine }

func (r *MedicineResolver) MedicineID() int32 { return int32(r.m.MedicineID) }
func (r *MedicineResolver) Name() string { return r.m.Name }
func (r *MedicineResolver) Dosage() *string { return optional(r.m.Dosage) }
func (r *MedicineResolver) Frequency() *string { return optional(r.m.Frequency) }

type PrescriptionResolver struct{ p records.Prescription }

func (r *PrescriptionResolver) RefNo() string { return r.p.ReferenceNumber }
func (r *PrescriptionResolver) PrescribedOn() string { return r.p.PrescribedOn.Format(dateLayout) }
func (r *PrescriptionResolver) Patient() *PatientResolver { return &PatientResolver{r.p.Patient} }
func (r *PrescriptionResolver) Doctor() *DoctorResolver { return &DoctorResolver{r.p.Doctor} }
func (r *PrescriptionResolver) Medicine() *MedicineResolver { return &MedicineResolver{r.p.Medicine} }

type ReferenceResolver struct{ ref records.Reference }

func (r *ReferenceResolver) RefNo() string { return r.ref.ReferenceNumber }
func (r *ReferenceResolver) PrescribedOn() string { return r.ref.PrescribedOn.Format(dateLayout) }
func (r *ReferenceResolver) PatientID() int32 { return int32(r.ref.PatientID) }
func (r *ReferenceResolver) PatientName() string { return r.ref.PatientName }
func (r *ReferenceResolver) DoctorID() int32 { return int32(r.ref.DoctorID) }
func (r *ReferenceResolver) DoctorName() string { return r.ref.DoctorName }
func (r *ReferenceResolver) MedicineID() int32 { return int32(r.ref.MedicineID) }
func (r *ReferenceResolver) MedicineName() string { return r.ref.MedicineName }

type PageInfoResolver struct{ m pagination.Meta }

func (r *PageInfoResolver) CurrentPage() int32 { return int32(r.m.CurrentPage) }
func (r *PageInfoResolver) PageSize() int32 { return int32(r.m.PageSize) }
func (r *PageInfoResolver) TotalPages() int32 { return int32(r.m.TotalPages) }
func (r *PageInfoResolver) TotalRecords() int32 { return int32(r.m.TotalRecords) }
func (r *PageInfoResolver) HasNext() bool { return r.m.HasNext }
func (r *PageInfoResolver) HasPrevious() bool { return r.m.HasPrevious }

type PatientPageResolver struct {
	patients []records.Patient
	meta     pagination.Meta
}

func (r *PatientPageResolver) Patients() []*PatientResolver { return patientResolvers(r.patients) }
func (r *PatientPageResolver) PageInfo() *PageInfoResolver { return &PageInfoResolver{r.meta} }

func patientResolvers(patients []records.Patient) []*PatientResolver {
	out := make([]*PatientResolver, len(patients))
	for i := range patients {
		out[i] = &PatientResolver{patients[i]}
	}
	return out
}

// PatientInput mirrors the GraphQL PatientInput
type PatientInput struct {
	Name          *string
	Age           *int32
	Gender        *string
	Address       *string
	ContactNumber *string
}

// DoctorInput mirrors the GraphQL DoctorInput
type DoctorInput struct {
	Name           *string
	Specialization *string
	ContactNumber  *string
}

// MedicineInput mirrors the GraphQL MedicineInput
type MedicineInput struct {
	Name      *string
	Dosage    *string
	Frequency *string
}

func (in *PatientInput) fields() *records.PatientFields {
	if in == nil {
		return nil
	}
	return &records.PatientFields{
		Name:          in.Name,
		Age:           in.Age,
		Gender:        in.Gender,
		Address:       in.Address,
		ContactNumber: in.ContactNumber,
	}
}

func (in *DoctorInput) fields() *records.DoctorFields {
	if in == nil {
		return nil
	}
	return &records.DoctorFields{
		Name:           in.Name,
		Specialization: in.Specialization,
		ContactNumber:  in.ContactNumber,
	}
}

func (in *MedicineInput) fields() *records.MedicineFields {
	if in == nil {
		return nil
	}
	return &records.MedicineFields{
		Name:      in.Name,
		Dosage:    in.Dosage,
		Frequency: in.Frequency,
	}
}
