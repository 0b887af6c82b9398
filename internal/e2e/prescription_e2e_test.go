//go:build integration

package e2e

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/WailSalutem-Health-Care/prescription-service/internal/messaging"
	"github.com/WailSalutem-Health-Care/prescription-service/internal/testutil"
)

func TestE2E_GetPrescription_FullFlow(t *testing.T) {
	ts := SetupE2ETest(t)
	testutil.CreateTestPrescription(t, ts.DB, "RX-5001", "Ada Lovelace")

	client := ts.NewClient(testutil.GeneratePatientToken(t, ts.PrivateKey))
	resp := client.GraphQL(t, `query($ref: String!) {
		getPrescription(refNo: $ref) {
			refNo
			patient { name age }
			doctor { name }
			medicine { name dosage frequency }
		}
	}`, map[string]interface{}{"ref": "RX-5001"})

	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Empty(t, resp.Errors)

	var data struct {
		GetPrescription struct {
			RefNo   string `json:"refNo"`
			Patient struct {
				Name string `json:"name"`
				Age  int    `json:"age"`
			} `json:"patient"`
			Doctor struct {
				Name string `json:"name"`
			} `json:"doctor"`
			Medicine struct {
				Name      string `json:"name"`
				Dosage    string `json:"dosage"`
				Frequency string `json:"frequency"`
			} `json:"medicine"`
		} `json:"getPrescription"`
	}
	require.NoError(t, json.Unmarshal(resp.Data, &data))

	p := data.GetPrescription
	assert.Equal(t, "RX-5001", p.RefNo)
	assert.Equal(t, "Ada Lovelace", p.Patient.Name)
	assert.Equal(t, 40, p.Patient.Age)
	assert.Equal(t, "Dr. RX-5001", p.Doctor.Name)
	assert.Equal(t, "Paracetamol", p.Medicine.Name)
	assert.Equal(t, "2x daily", p.Medicine.Frequency)
}

func TestE2E_GetPrescription_NotFound(t *testing.T) {
	ts := SetupE2ETest(t)

	resp := ts.DoctorClient(t).GraphQL(t, `{ getPrescription(refNo: "RX-404") { refNo } }`, nil)

	require.Len(t, resp.Errors, 1)
	assert.Equal(t, "NOT_FOUND", resp.Errors[0].Code())
	assert.Equal(t, "prescription reference not found", resp.Errors[0].Message)
}

func TestE2E_GetPatient_PartialMatch(t *testing.T) {
	ts := SetupE2ETest(t)
	testutil.CreateTestPrescription(t, ts.DB, "RX-6001", "Grace Hopper")
	testutil.CreateTestPrescription(t, ts.DB, "RX-6002", "Alan Turing")

	resp := ts.DoctorClient(t).GraphQL(t, `{ getPatient(name: "hopp") { name } }`, nil)
	require.Empty(t, resp.Errors)
	assert.JSONEq(t, `{"getPatient":[{"name":"Grace Hopper"}]}`, string(resp.Data))

	resp = ts.DoctorClient(t).GraphQL(t, `{ getPatient(name: "nobody") { name } }`, nil)
	require.Len(t, resp.Errors, 1)
	assert.Equal(t, "NOT_FOUND", resp.Errors[0].Code())
}

func TestE2E_GetAllPatients_Pagination(t *testing.T) {
	ts := SetupE2ETest(t)
	for i := 1; i <= 5; i++ {
		testutil.CreateTestPrescription(t, ts.DB, fmt.Sprintf("RX-70%02d", i), fmt.Sprintf("Patient %d", i))
	}

	resp := ts.DoctorClient(t).GraphQL(t, `{
		getAllPatients(page: 2, pageSize: 2) {
			patients { name }
			pageInfo { currentPage pageSize totalPages totalRecords hasNext hasPrevious }
		}
	}`, nil)
	require.Empty(t, resp.Errors)
	assert.JSONEq(t, `{"getAllPatients":{
		"patients":[{"name":"Patient 3"},{"name":"Patient 4"}],
		"pageInfo":{"currentPage":2,"pageSize":2,"totalPages":3,"totalRecords":5,"hasNext":true,"hasPrevious":true}
	}}`, string(resp.Data))

	resp = ts.DoctorClient(t).GraphQL(t, `{ getAllPatients(page: 9, pageSize: 2) { patients { name } pageInfo { hasNext } } }`, nil)
	require.Empty(t, resp.Errors)
	assert.JSONEq(t, `{"getAllPatients":{"patients":[],"pageInfo":{"hasNext":false}}}`, string(resp.Data))
}

func TestE2E_GetReference_PrefixMatch(t *testing.T) {
	ts := SetupE2ETest(t)
	testutil.CreateTestPrescription(t, ts.DB, "RX-8001", "A")
	testutil.CreateTestPrescription(t, ts.DB, "RX-8002", "B")
	testutil.CreateTestPrescription(t, ts.DB, "RX-9001", "C")

	client := ts.NewClient(testutil.GeneratePharmacistToken(t, ts.PrivateKey))
	resp := client.GraphQL(t, `{ getReference(refNo: "RX-80") { refNo patientName } }`, nil)
	require.Empty(t, resp.Errors)
	assert.JSONEq(t, `{"getReference":[{"refNo":"RX-8001","patientName":"A"},{"refNo":"RX-8002","patientName":"B"}]}`, string(resp.Data))
}

func TestE2E_UpdatePatientDetails_FullFlow(t *testing.T) {
	ts := SetupE2ETest(t)
	testutil.CreateTestPrescription(t, ts.DB, "RX-9101", "Katherine Johnson")

	resp := ts.DoctorClient(t).GraphQL(t, `mutation {
		updatePatientDetails(
			refNo: "RX-9101"
			patient: {address: "1 Langley Way"}
			medicine: {dosage: "250mg"}
		) {
			patient { name address }
			medicine { name dosage }
		}
	}`, nil)
	require.Empty(t, resp.Errors)
	assert.JSONEq(t, `{"updatePatientDetails":{
		"patient":{"name":"Katherine Johnson","address":"1 Langley Way"},
		"medicine":{"name":"Paracetamol","dosage":"250mg"}
	}}`, string(resp.Data))

	var address string
	require.NoError(t, ts.DB.QueryRow(`SELECT address FROM patient WHERE name = 'Katherine Johnson'`).Scan(&address))
	assert.Equal(t, "1 Langley Way", address)

	ts.MockPublisher.AssertEventCount(t, messaging.EventPrescriptionUpdated, 1)
	evt := ts.MockPublisher.LastPrescriptionUpdated(t)
	assert.Equal(t, "RX-9101", evt.Data.ReferenceNumber)
	assert.Equal(t, []string{"patient", "medicine"}, evt.Data.UpdatedTables)
}

func TestE2E_UpdatePatientDetails_InvalidInputLeavesRowsUntouched(t *testing.T) {
	ts := SetupE2ETest(t)
	testutil.CreateTestPrescription(t, ts.DB, "RX-9201", "Mary Jackson")

	resp := ts.DoctorClient(t).GraphQL(t, `mutation {
		updatePatientDetails(refNo: "RX-9201", patient: {age: -3}, doctor: {name: "Dr. New"}) { refNo }
	}`, nil)
	require.Len(t, resp.Errors, 1)
	assert.Equal(t, "BAD_USER_INPUT", resp.Errors[0].Code())

	var doctor string
	require.NoError(t, ts.DB.QueryRow(`SELECT name FROM doctor WHERE name LIKE 'Dr. RX-9201'`).Scan(&doctor))
	assert.Equal(t, "Dr. RX-9201", doctor)
	ts.MockPublisher.AssertEventCount(t, messaging.EventPrescriptionUpdated, 0)
}

func TestE2E_Authorization(t *testing.T) {
	ts := SetupE2ETest(t)
	testutil.CreateTestPrescription(t, ts.DB, "RX-9301", "Dorothy Vaughan")

	pharmacist := ts.NewClient(testutil.GeneratePharmacistToken(t, ts.PrivateKey))
	resp := pharmacist.GraphQL(t, `mutation { updatePatientDetails(refNo: "RX-9301", patient: {name: "X"}) { refNo } }`, nil)
	require.Len(t, resp.Errors, 1)
	assert.Equal(t, "FORBIDDEN", resp.Errors[0].Code())

	patient := ts.NewClient(testutil.GeneratePatientToken(t, ts.PrivateKey))
	resp = patient.GraphQL(t, `{ getAllPatients { pageInfo { totalRecords } } }`, nil)
	require.Len(t, resp.Errors, 1)
	assert.Equal(t, "FORBIDDEN", resp.Errors[0].Code())
}

func TestE2E_Authentication_MissingToken(t *testing.T) {
	ts := SetupE2ETest(t)

	resp := ts.NewClient("").GraphQL(t, `{ getPrescription(refNo: "RX-1") { refNo } }`, nil)

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	require.Len(t, resp.Errors, 1)
	assert.Equal(t, "UNAUTHENTICATED", resp.Errors[0].Code())
}

func TestE2E_Health(t *testing.T) {
	ts := SetupE2ETest(t)

	resp := ts.NewClient("").GET(t, "/health")
	testutil.AssertStatusCode(t, resp, http.StatusOK)
	resp.Body.Close()
}
