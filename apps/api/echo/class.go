package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/studyflow/core/assignment"
	"github.com/trezcool/studyflow/core/class"
)

type classApi struct {
	svc           class.ServiceInterface
	assignmentSvc assignment.ServiceInterface
	validate      *validator.Validate
}

func registerClassAPI(
	g *echo.Group,
	svc class.ServiceInterface,
	assignmentSvc assignment.ServiceInterface,
	validate *validator.Validate,
) {
	api := classApi{svc: svc, assignmentSvc: assignmentSvc, validate: validate}

	cg := g.Group("/classes")
	cg.GET("", api.query)
	cg.POST("", api.create)

	// detail endpoints
	cg.GET("/:id", api.retrieve)
	cg.PATCH("/:id", api.update)
	cg.DELETE("/:id", api.destroy)
	cg.GET("/:id/assignments", api.queryAssignments)
}

// Handlers

func (api *classApi) query(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, api.svc.GetAll(ctx.Request().Context()))
}

func (api *classApi) create(ctx echo.Context) error {
	var data class.NewClass
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewClass")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	cls, err := api.svc.Create(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating class")
	}
	return ctx.JSON(http.StatusCreated, cls)
}

func (api *classApi) retrieve(ctx echo.Context) error {
	id, err := pathID(ctx)
	if err != nil {
		return err
	}
	cls, err := api.svc.GetByID(ctx.Request().Context(), id)
	if err != nil {
		return errors.Wrap(err, "getting class by id")
	}
	return ctx.JSON(http.StatusOK, cls)
}

func (api *classApi) update(ctx echo.Context) error {
	id, err := pathID(ctx)
	if err != nil {
		return err
	}

	var data class.UpdateClass
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateClass")
	}
	if data.IsEmpty() {
		return errEmptyUpdate
	}
	if err = data.Validate(api.validate); err != nil {
		return err
	}

	cls, err := api.svc.Update(ctx.Request().Context(), id, data)
	if err != nil {
		return errors.Wrap(err, "updating class")
	}
	return ctx.JSON(http.StatusOK, cls)
}

func (api *classApi) destroy(ctx echo.Context) error {
	id, err := pathID(ctx)
	if err != nil {
		return err
	}
	if err = api.svc.Delete(ctx.Request().Context(), id); err != nil {
		return errors.Wrap(err, "deleting class")
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *classApi) queryAssignments(ctx echo.Context) error {
	if _, err := pathID(ctx); err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, api.assignmentSvc.GetByClassID(ctx.Request().Context(), ctx.Param("id")))
}
