package payroll

import "errors"

var (
	ErrSalaryStructureNotFound   = errors.New("no salary structure covers the payroll period")
	ErrPeriodNotFound            = errors.New("payroll period not found")
	ErrPayslipNotFound           = errors.New("payslip not found")
	ErrTaxConfigurationNotFound  = errors.New("no active tax configuration for the period")
	ErrInvalidTaxConfiguration   = errors.New("invalid tax configuration")
	ErrInvalidPeriodTransition   = errors.New("invalid payroll period status transition")
	ErrPeriodNotEditable         = errors.New("payroll period is not editable in its current status")
	ErrUnsupportedCalcMethod     = errors.New("unsupported component calculation method")
	ErrEmployeeInactiveForPeriod = errors.New("employee inactive for the entire period")
)
