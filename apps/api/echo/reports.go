package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/tutorias/asistencias/core/attendance"
	"github.com/tutorias/asistencias/core/student"
	"github.com/tutorias/asistencias/core/tutor"
)

// reportsApi serves the public read-only listings of the dashboard.
type reportsApi struct {
	attendanceSvc attendance.Service
	studentSvc    student.Service
	tutorSvc      tutor.Service
}

func registerReportsAPI(e *echo.Echo, deps *Deps) {
	api := reportsApi{
		attendanceSvc: deps.AttendanceSvc,
		studentSvc:    deps.StudentSvc,
		tutorSvc:      deps.TutorSvc,
	}

	// tutors & students
	e.GET("/getAllStudentsByTutor", api.allStudentsByTutor)
	e.GET("/getStudentsByTutor/:tutorId", api.studentsByTutor)
	e.GET("/getTutorsByModule/:moduleId", api.tutorsByModule)
	e.GET("/getStudentsByModuleAndTutor/:moduleId/:tutorId", api.studentsByModuleAndTutor)
	e.GET("/getStudentsByModule/:moduleId", api.studentsByModule)
	e.GET("/getPendingStudents", api.pendingStudents)

	// attendance
	e.GET("/getAttendanceByDate/:date", api.attendanceByDate)
	e.GET("/getAttendanceByDateAndTutor/:date/:tutorId", api.attendanceByDateAndTutor)
	e.GET("/getAttendanceByMonth/:monthYear", api.attendanceByMonth)
	e.GET("/getAttendanceByMonthAndTutor/:monthYear/:tutorId", api.attendanceByMonth)
}

// Handlers

func (api *reportsApi) allStudentsByTutor(ctx echo.Context) error {
	tutors, err := api.tutorSvc.WithStudents(ctx.Request().Context())
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, tutors)
}

func (api *reportsApi) studentsByTutor(ctx echo.Context) error {
	tutorID, err := paramID(ctx, "tutorId")
	if err != nil {
		return err
	}
	students, err := api.studentSvc.ByTutor(ctx.Request().Context(), tutorID)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, students)
}

func (api *reportsApi) tutorsByModule(ctx echo.Context) error {
	moduleID, err := paramID(ctx, "moduleId")
	if err != nil {
		return err
	}
	tutors, err := api.tutorSvc.ByModule(ctx.Request().Context(), moduleID)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, tutors)
}

func (api *reportsApi) studentsByModuleAndTutor(ctx echo.Context) error {
	moduleID, err := paramID(ctx, "moduleId")
	if err != nil {
		return err
	}
	tutorID, err := paramID(ctx, "tutorId")
	if err != nil {
		return err
	}
	students, err := api.studentSvc.ByModuleAndTutor(ctx.Request().Context(), moduleID, tutorID)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, students)
}

func (api *reportsApi) studentsByModule(ctx echo.Context) error {
	moduleID, err := paramID(ctx, "moduleId")
	if err != nil {
		return err
	}
	students, err := api.studentSvc.ByModule(ctx.Request().Context(), moduleID)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, students)
}

// pendingStudents lists the pending students of ?tutorId=, or of every tutor grouped by tutor.
func (api *reportsApi) pendingStudents(ctx echo.Context) error {
	tutorID, err := queryID(ctx, "tutorId")
	if err != nil {
		return err
	}
	pending, err := api.studentSvc.Pending(ctx.Request().Context(), tutorID)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, pending)
}

func (api *reportsApi) attendanceByDate(ctx echo.Context) error {
	counts, err := api.attendanceSvc.CountByDate(ctx.Request().Context(), ctx.Param("date"))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, counts)
}

func (api *reportsApi) attendanceByDateAndTutor(ctx echo.Context) error {
	tutorID, err := paramID(ctx, "tutorId")
	if err != nil {
		return err
	}
	roster, err := api.attendanceSvc.RosterByDate(ctx.Request().Context(), ctx.Param("date"), tutorID)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, roster)
}

// attendanceByMonth serves both the all-tutors and the single tutor (:tutorId) monthly reports.
func (api *reportsApi) attendanceByMonth(ctx echo.Context) error {
	var tutorID *int64
	if ctx.Param("tutorId") != "" {
		id, err := paramID(ctx, "tutorId")
		if err != nil {
			return err
		}
		tutorID = &id
	}
	months, err := api.attendanceSvc.CountByMonth(ctx.Request().Context(), ctx.Param("monthYear"), tutorID)
	if err != nil {
		return errors.Wrap(err, "counting attendance by month")
	}
	return ctx.JSON(http.StatusOK, months)
}
