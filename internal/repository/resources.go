package repository

// Datastore resources and their field names. The "latest" resources are refreshed daily.
const (
	ResourceCurricula          = "curriculadisponibili_latest_it"
	ResourceCurriculumTeaching = "curriculadettagli_latest_it"
	ResourceTeachings          = "insegnamenti_latest_it"
	ResourceTimetables         = "orari_latest"
	ResourceRooms              = "aule_latest"
)

// Fields used in server-side filters; record decoding uses struct tags.
const (
	fieldCurriculumCourseCode = "corso_codice"
	fieldCurriculumCode       = "curriculum_codice"
	fieldCurriculumYear       = "anno"
	fieldTeachingRootID       = "componente_radice"
	fieldTimetableTeachingID  = "componente_id"
	fieldRoomCode             = "aula_codice"
)

// NoLimit is large enough to return every row of a resource.
const NoLimit = 10000

// timetableLayout is the datastore's zone-less timestamp format.
const timetableLayout = "2006-01-02T15:04:05"
