package model

type Faculty struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	BuildingID  *int64 `json:"building_id"`
	DeanID      int64  `json:"dean_id"`
	DeanAsst1ID int64  `json:"dean_asst_1_id"`
	DeanAsst2ID *int64 `json:"dean_asst_2_id"`
}

type NewFaculty struct {
	Name        string `form:"name" validate:"required,max=100"`
	BuildingID  int64  `form:"building" validate:"gte=0"`
	DeanID      int64  `form:"dean" validate:"required,gt=0"`
	DeanAsst1ID int64  `form:"dean_asst_1" validate:"required,gt=0"`
	DeanAsst2ID int64  `form:"dean_asst_2" validate:"gte=0"`
}

type FacultyUpdate struct {
	Name        *string `form:"name" validate:"omitempty,min=1,max=100"`
	BuildingID  *int64  `form:"building" validate:"omitempty,gt=0"`
	DeanID      *int64  `form:"dean" validate:"omitempty,gt=0"`
	DeanAsst1ID *int64  `form:"dean_asst_1" validate:"omitempty,gt=0"`
	DeanAsst2ID *int64  `form:"dean_asst_2" validate:"omitempty,gt=0"`
}

type Department struct {
	ID         int64  `json:"id"`
	Name       string `json:"name"`
	FacultyID  *int64 `json:"faculty_id"`
	BuildingID *int64 `json:"building_id"`
	DeanID     *int64 `json:"dean_id"`
}

type NewDepartment struct {
	Name       string `form:"name" validate:"required,max=100"`
	FacultyID  int64  `form:"faculty" validate:"gte=0"`
	BuildingID int64  `form:"building" validate:"gte=0"`
	DeanID     int64  `form:"dean" validate:"gte=0"`
}

type DepartmentUpdate struct {
	Name       *string `form:"name" validate:"omitempty,min=1,max=100"`
	FacultyID  *int64  `form:"faculty" validate:"omitempty,gt=0"`
	BuildingID *int64  `form:"building" validate:"omitempty,gt=0"`
	DeanID     *int64  `form:"dean" validate:"omitempty,gt=0"`
}

type Club struct {
	ID              int64  `json:"id"`
	Name            string `json:"name"`
	FacultyID       *int64 `json:"faculty_id"`
	AdvisorID       *int64 `json:"advisor_id"`
	ChairmanID      *int64 `json:"chairman_id"`
	ViceChairman1ID *int64 `json:"vice_chairman_1_id"`
	ViceChairman2ID *int64 `json:"vice_chairman_2_id"`
}

type NewClub struct {
	Name            string `form:"name" validate:"required,max=100"`
	FacultyID       int64  `form:"faculty" validate:"gte=0"`
	AdvisorID       int64  `form:"advisor" validate:"gte=0"`
	ChairmanID      int64  `form:"chairman" validate:"gte=0"`
	ViceChairman1ID int64  `form:"v_chairman_1" validate:"gte=0"`
	ViceChairman2ID int64  `form:"v_chairman_2" validate:"gte=0"`
}

type ClubUpdate struct {
	Name            *string `form:"name" validate:"omitempty,min=1,max=100"`
	FacultyID       *int64  `form:"faculty" validate:"omitempty,gt=0"`
	AdvisorID       *int64  `form:"advisor" validate:"omitempty,gt=0"`
	ChairmanID      *int64  `form:"chairman" validate:"omitempty,gt=0"`
	ViceChairman1ID *int64  `form:"v_chairman_1" validate:"omitempty,gt=0"`
	ViceChairman2ID *int64  `form:"v_chairman_2" validate:"omitempty,gt=0"`
}

type Paper struct {
	ID            int64  `json:"id"`
	Title         string `json:"title"`
	Platform      string `json:"platform"`
	CitationCount int    `json:"citation_count"`
	AuthorID      *int64 `json:"author_id"`
	Conference    bool   `json:"conference"`
}

type NewPaper struct {
	Title         string `form:"title" validate:"required,max=100"`
	Platform      string `form:"plat" validate:"max=100"`
	CitationCount int    `form:"citation_count" validate:"gte=0"`
	AuthorID      int64  `form:"author" validate:"gte=0"`
	Conference    bool   `form:"conference"`
}

type PaperUpdate struct {
	Title         *string `form:"title" validate:"omitempty,min=1,max=100"`
	Platform      *string `form:"plat" validate:"omitempty,max=100"`
	CitationCount *int    `form:"citation_count" validate:"omitempty,gte=0"`
	AuthorID      *int64  `form:"author" validate:"omitempty,gt=0"`
	Conference    *bool   `form:"conference"`
}
