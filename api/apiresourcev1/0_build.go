package apiresourcev1

import (
	"github.com/fulldump/box"

	"github.com/fulldump/mockdb/service"
)

func BuildV1Resource(v1 *box.R, s service.Servicer) *box.R {

	resources := v1.Resource("/resources").
		WithActions(
			box.Get(listResources),
		)

	v1.Resource("/resources/{resourceName}").
		WithActions(
			box.Get(getResource),
			box.Post(createRecords),
			box.ActionPost(queryRecords).WithName("query"),
			box.Action(getState).WithName("getState"),
			box.ActionPost(setState).WithName("setState"),
		)

	v1.Resource("/resources/{resourceName}/{recordId}").
		WithActions(
			box.Get(getRecord),
			box.Patch(patchRecord),
			box.Delete(deleteRecord),
		)

	return resources
}
